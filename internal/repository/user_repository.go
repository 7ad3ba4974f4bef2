package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/roshanmgr/venue-booking/internal/model"
	"github.com/roshanmgr/venue-booking/internal/utils"
)

// UserRepo persists principals.  One table holds all three roles; the role
// column is the discriminator and partner extras live in partner_profiles.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,email,password_hash,role,full_name,status,otp_code,otp_expiry,created_at,updated_at"

func scanUser(row *sql.Row) (model.Principal, error) {
	var (
		u      model.Principal
		role   string
		otp    sql.NullString
		otpExp sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.FullName,
		&u.Status, &otp, &otpExp, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return u, err
	}
	u.Role = model.Role(role)
	if otp.Valid {
		v := otp.String
		u.OTPCode = &v
	}
	if otpExp.Valid {
		t := otpExp.Time
		u.OTPExpiry = &t
	}
	return u, nil
}

// Create inserts a principal and returns its ID.  Partner accounts start as
// pending; everyone else is active immediately.
func (r *UserRepo) Create(ctx context.Context, email, password, fullName string, role model.Role, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	status := model.StatusActive
	if role == model.RolePartner {
		status = model.StatusPending
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, full_name, status) VALUES (?,?,?,?,?)",
		email, hash, string(role), fullName, status)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a principal by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// GetByID fetches a principal by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.Principal, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// Admins returns every admin principal.  The fan-out router includes all of
// them in each recipient set.
func (r *UserRepo) Admins(ctx context.Context) ([]model.Principal, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,email,role,full_name,status FROM users WHERE role=?", string(model.RoleAdmin))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Principal
	for rows.Next() {
		var u model.Principal
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &role, &u.FullName, &u.Status); err != nil {
			return nil, err
		}
		u.Role = model.Role(role)
		out = append(out, u)
	}
	return out, rows.Err()
}

// SetOTP stores a one-time code and its expiry for the password-reset flow.
func (r *UserRepo) SetOTP(ctx context.Context, userID uint64, code string, expiry time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET otp_code=?, otp_expiry=? WHERE id=?", code, expiry, userID)
	return err
}

// UpdatePassword replaces the password hash and clears any pending OTP.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, otp_code=NULL, otp_expiry=NULL WHERE id=?", hash, userID)
	return err
}

// SetStatus transitions an account status, e.g. activating a pending partner.
func (r *UserRepo) SetStatus(ctx context.Context, userID uint64, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET status=? WHERE id=?", status, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
