package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// Foreign key names as Postgres derives them (<table>_<column>_fkey) from the migrations.
const (
	fkEventFundraiserEvent      = "event_fundraisers_event_id_fkey"
	fkEventFundraiserFundraiser = "event_fundraisers_fundraiser_id_fkey"
	fkEventAttendeeEvent        = "event_attendees_event_id_fkey"
	fkEventAttendeeDonor        = "event_attendees_donor_id_fkey"
	fkCommentDonor              = "comments_donor_id_fkey"
	fkCommentFundraiser         = "comments_fundraiser_id_fkey"
	fkCommentEvent              = "comments_event_id_fkey"
)

// conditions accumulates "col = $n" clauses for dynamic filters.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(column string, value interface{}) {
	c.args = append(c.args, value)
	c.clauses = append(c.clauses, fmt.Sprintf("%s = $%d", column, len(c.args)))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// setClauses accumulates "col = $n" assignments for partial updates.
type setClauses struct {
	conditions
}

func (s *setClauses) set() string {
	return strings.Join(s.clauses, ", ")
}

// next returns the placeholder index for the argument appended after the current ones.
func (s *setClauses) next() int {
	return len(s.args) + 1
}

func pqCode(err error) (string, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	return "", ""
}

func isUniqueViolation(err error) bool {
	code, _ := pqCode(err)
	return code == pqUniqueViolation
}

// foreignKeyViolation reports whether err is an FK violation and, if so, the violated constraint.
func foreignKeyViolation(err error) (string, bool) {
	code, constraint := pqCode(err)
	return constraint, code == pqForeignKeyViolation
}
