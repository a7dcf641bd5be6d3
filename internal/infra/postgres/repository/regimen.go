package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
	"github.com/aliskhannn/medcourse-bot/internal/infra/postgres"
)

var (
	ErrRegimenNotFound = errors.New("regimen not found")
	ErrInvalidRegimen  = errors.New("regimen rejected by schema")
	ErrRegimenExists   = errors.New("regimen already exists")
)

const regimenColumns = `
	id, owner_id, name, dose_per_intake, intakes_per_day, start_date,
	duration_value, duration_unit, break_value, break_unit, cycles,
	created_at, updated_at`

// RegimenRepository provides access to medication courses in the database.
type RegimenRepository struct {
	db postgres.DBTX
	tx *postgres.Transactor
}

// NewRegimenRepository creates a new RegimenRepository.
func NewRegimenRepository(db postgres.DBTX, tx *postgres.Transactor) *RegimenRepository {
	return &RegimenRepository{db: db, tx: tx}
}

// Insert stores a new regimen and returns its ID.
func (r *RegimenRepository) Insert(ctx context.Context, reg *entities.Regimen) (uuid.UUID, error) {
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}

	query := `
		INSERT INTO regimens (` + regimenColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		reg.ID,
		reg.OwnerID,
		reg.Name,
		reg.DosePerIntake,
		reg.IntakesPerDay,
		reg.StartDate,
		reg.DurationValue,
		string(reg.DurationUnit),
		reg.BreakValue,
		string(reg.BreakUnit),
		reg.Cycles,
		reg.CreatedAt,
		reg.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("%w: %s", ErrRegimenExists, reg.ID)
		}
		if postgres.IsConstraintViolation(err) {
			return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidRegimen, err)
		}
		return uuid.Nil, fmt.Errorf("insert regimen: %w", err)
	}

	return reg.ID, nil
}

// Get retrieves a regimen by ID.
func (r *RegimenRepository) Get(ctx context.Context, id uuid.UUID) (*entities.Regimen, error) {
	return getRegimen(ctx, r.db, id, "")
}

// ListByOwner returns all regimens of one user, oldest first.
func (r *RegimenRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entities.Regimen, error) {
	query := `SELECT ` + regimenColumns + ` FROM regimens WHERE owner_id = $1 ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list regimens by owner: %w", err)
	}
	return collectRegimens(rows)
}

// ListAll returns every stored regimen.
func (r *RegimenRepository) ListAll(ctx context.Context) ([]*entities.Regimen, error) {
	query := `SELECT ` + regimenColumns + ` FROM regimens ORDER BY owner_id, created_at, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list regimens: %w", err)
	}
	return collectRegimens(rows)
}

// UpdateFields locks the row, lets fn modify the loaded regimen and writes it back
// in the same transaction. If fn fails nothing is written.
func (r *RegimenRepository) UpdateFields(ctx context.Context, id uuid.UUID, fn func(reg *entities.Regimen) error) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context, tx postgres.DBTX) error {
		reg, err := getRegimen(ctx, tx, id, "FOR UPDATE")
		if err != nil {
			return err
		}

		if err := fn(reg); err != nil {
			return err
		}

		query := `
			UPDATE regimens
			SET name = $1,
			    dose_per_intake = $2,
			    intakes_per_day = $3,
			    start_date = $4,
			    duration_value = $5,
			    duration_unit = $6,
			    break_value = $7,
			    break_unit = $8,
			    cycles = $9,
			    updated_at = $10
			WHERE id = $11
		`

		tag, err := tx.Exec(ctx, query,
			reg.Name,
			reg.DosePerIntake,
			reg.IntakesPerDay,
			reg.StartDate,
			reg.DurationValue,
			string(reg.DurationUnit),
			reg.BreakValue,
			string(reg.BreakUnit),
			reg.Cycles,
			time.Now().UTC(),
			id,
		)
		if err != nil {
			if postgres.IsConstraintViolation(err) {
				return fmt.Errorf("%w: %v", ErrInvalidRegimen, err)
			}
			return fmt.Errorf("update regimen: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrRegimenNotFound
		}

		return nil
	})
}

// Delete removes a regimen owned by the given user.
func (r *RegimenRepository) Delete(ctx context.Context, ownerID int64, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM regimens WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete regimen: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRegimenNotFound
	}
	return nil
}

// AllOwners returns every known user: those who own a regimen and those
// who only have settings. Each ID appears once.
func (r *RegimenRepository) AllOwners(ctx context.Context) ([]int64, error) {
	query := `
		SELECT owner_id FROM regimens
		UNION
		SELECT user_id FROM user_settings
		ORDER BY 1
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}

	owners, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan owners: %w", err)
	}
	return owners, nil
}

func getRegimen(ctx context.Context, db postgres.DBTX, id uuid.UUID, lock string) (*entities.Regimen, error) {
	query := `SELECT ` + regimenColumns + ` FROM regimens WHERE id = $1 ` + lock

	reg, err := scanRegimen(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRegimenNotFound
		}
		return nil, fmt.Errorf("get regimen: %w", err)
	}
	return reg, nil
}

func collectRegimens(rows pgx.Rows) ([]*entities.Regimen, error) {
	defer rows.Close()

	var regimens []*entities.Regimen
	for rows.Next() {
		reg, err := scanRegimen(rows)
		if err != nil {
			return nil, fmt.Errorf("scan regimen: %w", err)
		}
		regimens = append(regimens, reg)
	}

	return regimens, rows.Err()
}

func scanRegimen(row pgx.Row) (*entities.Regimen, error) {
	var (
		reg          entities.Regimen
		durationUnit string
		breakUnit    string
	)

	err := row.Scan(
		&reg.ID,
		&reg.OwnerID,
		&reg.Name,
		&reg.DosePerIntake,
		&reg.IntakesPerDay,
		&reg.StartDate,
		&reg.DurationValue,
		&durationUnit,
		&reg.BreakValue,
		&breakUnit,
		&reg.Cycles,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	reg.DurationUnit = entities.DurationUnit(durationUnit)
	reg.BreakUnit = entities.DurationUnit(breakUnit)
	return &reg, nil
}
