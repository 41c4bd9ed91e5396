package readers

import (
	"strings"

	"github.com/deskflow-io/deskflow/modules/ingestion/services"
)

// headerAliases translate common export column headings onto canonical
// field names. Headings are matched after lowercasing and replacing
// spaces with underscores; unknown headings pass through unchanged and
// are ignored downstream.
var headerAliases = map[string]string{
	"number":             services.FieldIncidentID,
	"incident":           services.FieldIncidentID,
	"incident_number":    services.FieldIncidentID,
	"assigned_to":        services.FieldAssignee,
	"opened":             services.FieldOpenedAt,
	"resolved":           services.FieldResolvedAt,
	"closed":             services.FieldClosedAt,
	"due_date":           services.FieldDueAt,
	"resolve_time":       services.FieldResolvedTime,
	"business_duration":  services.FieldResolvedTime,
	"response_duration":  services.FieldResponseTime,
	"resolution_code":    services.FieldCloseCode,
	"resolution_notes":   services.FieldCloseNotes,
	"incident_state":     services.FieldState,
	"caller_id":          services.FieldCaller,
	"cmdb_ci":            services.FieldConfigurationItem,
	"u_organization":     services.FieldOrganization,
	"made_sla":           services.FieldMadeSLA,
	"reassignment_count": services.FieldReassignmentCount,
	"reopen_count":       services.FieldReopenCount,
}

func headerToField(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.ReplaceAll(h, " ", "_")
	if canonical, ok := headerAliases[h]; ok {
		return canonical
	}
	return h
}

func rowToRecord(fields []string, cells []string) services.RawRecord {
	record := make(services.RawRecord, len(fields))
	for i, field := range fields {
		if field == "" {
			continue
		}
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		record[field] = value
	}
	return record
}
