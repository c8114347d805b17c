package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/roster/internal/database"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const customerColumns = `id, name, email, password_hash, phone_number, total_purchase, city, payment_status, created_at, updated_at`

var customerSearchColumns = map[string]bool{
	"name":           true,
	"email":          true,
	"city":           true,
	"phone_number":   true,
	"payment_status": true,
}

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(db *database.DB) *CustomerRepository {
	return &CustomerRepository{pool: db.Pool}
}

func scanCustomerRow(scanner rowScanner) (*models.Customer, error) {
	var c models.Customer

	err := scanner.Scan(
		&c.ID, &c.Name, &c.Email, &c.PasswordHash,
		&c.PhoneNumber, &c.TotalPurchase, &c.City, &c.PaymentStatus,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &c, nil
}

func scanCustomerRows(rows pgx.Rows) ([]*models.Customer, error) {
	defer rows.Close()

	customers := make([]*models.Customer, 0)
	for rows.Next() {
		c, err := scanCustomerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return customers, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomerRow(r.pool.QueryRow(ctx, query, id))
}

func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`
	return scanCustomerRow(r.pool.QueryRow(ctx, query, email))
}

// List returns every customer in insertion order, optionally narrowed by search
func (r *CustomerRepository) List(ctx context.Context, search Search) ([]*models.Customer, error) {
	where, args := whereClause(search, customerSearchColumns)
	query := `SELECT ` + customerColumns + ` FROM customers` + where + ` ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}

	return scanCustomerRows(rows)
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	now := time.Now().UTC()

	if c.PaymentStatus == "" {
		c.PaymentStatus = models.PaymentStatusNone
	}

	query := `
		INSERT INTO customers (id, name, email, password_hash, phone_number, total_purchase, city, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + customerColumns

	return scanCustomerRow(r.pool.QueryRow(ctx, query,
		uuid.New().String(), c.Name, c.Email, c.PasswordHash,
		c.PhoneNumber, c.TotalPurchase, c.City, c.PaymentStatus,
		now, now,
	))
}

func (r *CustomerRepository) Update(ctx context.Context, id string, c *models.Customer) (*models.Customer, error) {
	query := `
		UPDATE customers
		SET name = $1, email = $2, phone_number = $3, total_purchase = $4, city = $5, payment_status = $6, updated_at = $7
		WHERE id = $8
		RETURNING ` + customerColumns

	return scanCustomerRow(r.pool.QueryRow(ctx, query,
		c.Name, c.Email, c.PhoneNumber, c.TotalPurchase, c.City, c.PaymentStatus,
		time.Now().UTC(), id,
	))
}

func (r *CustomerRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE customers SET password_hash = $1, updated_at = $2 WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, passwordHash, time.Now().UTC(), id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
