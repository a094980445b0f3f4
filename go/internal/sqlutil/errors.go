package sqlutil

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/fkmtimer/fkm/go/internal/models"
)

// Postgres error codes the repositories care about.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// MapError translates driver errors into the models error taxonomy.
// Other errors are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", models.ErrNotFound, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", models.ErrConflict, pqErr.Constraint)
		case foreignKeyViolation:
			return fmt.Errorf("%w: %s", models.ErrNotFound, pqErr.Constraint)
		}
	}
	return err
}
