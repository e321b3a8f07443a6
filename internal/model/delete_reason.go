package model

import "fmt"

// DeleteReason is the closed set of reasons a product may be removed from
// stock. Unrecognized codes are rejected at the boundary; free text is
// carried only for ReasonOther.
type DeleteReason string

const (
	ReasonSold     DeleteReason = "تم البيع"
	ReasonExpired  DeleteReason = "انتهت الصلاحية"
	ReasonReturned DeleteReason = "مرتجع للشركة"
	ReasonOther    DeleteReason = "أخرى"
)

// Valid reports whether the reason is one of the known codes.
func (r DeleteReason) Valid() bool {
	switch r {
	case ReasonSold, ReasonExpired, ReasonReturned, ReasonOther:
		return true
	}
	return false
}

// AuditDetails formats the audit-trail details line for a deletion.
// The free-text detail is appended only for the "other" reason.
func (r DeleteReason) AuditDetails(detail string) string {
	if r == ReasonOther && detail != "" {
		return fmt.Sprintf("حذف: %s - %s", r, detail)
	}
	return fmt.Sprintf("حذف: %s", r)
}
