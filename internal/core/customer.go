package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/lo"

	"github.com/edvin/customerapi/internal/model"
)

// ErrNotFound is returned by UpdateByID and DeleteByID when no customer has
// the given id. No row is written in that case.
var ErrNotFound = errors.New("customer not found")

// DB is the subset of a pgx connection the repository needs. It is satisfied
// by *pgx.Conn, *pgxpool.Conn and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type CustomerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// ListAll returns every customer ordered by id. The result is never nil.
func (r *CustomerRepository) ListAll(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.db.Query(ctx, `SELECT id, customer_name, email, phone FROM customer ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		var name *string
		if err := rows.Scan(&c.ID, &name, &c.Email, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		c.CustomerName = lo.FromPtr(name)
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}

// Insert stores a new customer and returns the id assigned by the database.
func (r *CustomerRepository) Insert(ctx context.Context, in model.CustomerInput) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO customer (customer_name, email, phone) VALUES ($1, $2, $3) RETURNING id`,
		in.CustomerName, in.Email, in.Phone,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert customer: %w", err)
	}
	return id, nil
}

// UpdateByID overwrites all mutable fields of the customer.
func (r *CustomerRepository) UpdateByID(ctx context.Context, id int64, in model.CustomerInput) error {
	err := r.withExisting(ctx, id, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`UPDATE customer SET customer_name = $1, email = $2, phone = $3 WHERE id = $4`,
			in.CustomerName, in.Email, in.Phone, id,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("update customer %d: %w", id, err)
	}
	return nil
}

func (r *CustomerRepository) DeleteByID(ctx context.Context, id int64) error {
	err := r.withExisting(ctx, id, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM customer WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	return nil
}

// withExisting locks the customer row and runs fn in the same transaction.
// The row lock keeps a concurrent delete from slipping in between the
// existence check and the write.
func (r *CustomerRepository) withExisting(ctx context.Context, id int64, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var found int64
	err = tx.QueryRow(ctx, `SELECT id FROM customer WHERE id = $1 FOR UPDATE`, id).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check customer: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
