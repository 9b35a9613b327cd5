package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// userRow is the users table. The portfolio is stored as one jsonb blob
// per user, the same shape the file backend writes.
type userRow struct {
	ID        string `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Name      string
	Portfolio string    `gorm:"type:jsonb;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (userRow) TableName() string { return "users" }

// PostgresStore implements Store on gorm for deployments that want the
// blob in a database instead of a local file.
type PostgresStore struct {
	db    *gorm.DB
	locks locker
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&userRow{}); err != nil {
		return nil, fmt.Errorf("migrate users table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Create(ctx context.Context, u *User) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&userRow{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}

	row, err := toRow(u)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(row).Error
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*User, error) {
	var row userRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromRow(&row)
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	var row userRow
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromRow(&row)
}

func (s *PostgresStore) Update(ctx context.Context, id string, mutate func(*User) error) (*User, error) {
	lock := s.locks.forUser(id)
	lock.Lock()
	defer lock.Unlock()

	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := cur.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}

	row, err := toRow(next)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", id).Updates(map[string]interface{}{
		"email":     row.Email,
		"password":  row.Password,
		"name":      row.Name,
		"portfolio": row.Portfolio,
	}).Error
	if err != nil {
		return nil, err
	}

	return next, nil
}

func (s *PostgresStore) All(ctx context.Context) ([]*User, error) {
	var rows []userRow
	if err := s.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*User, 0, len(rows))
	for i := range rows {
		u, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&userRow{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func toRow(u *User) (*userRow, error) {
	blob, err := json.Marshal(u.Portfolio)
	if err != nil {
		return nil, fmt.Errorf("encode portfolio: %w", err)
	}
	return &userRow{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Name:      u.Name,
		Portfolio: string(blob),
	}, nil
}

func fromRow(row *userRow) (*User, error) {
	u := &User{
		ID:       row.ID,
		Email:    row.Email,
		Password: row.Password,
		Name:     row.Name,
	}
	if err := json.Unmarshal([]byte(row.Portfolio), &u.Portfolio); err != nil {
		return nil, fmt.Errorf("decode portfolio: %w", err)
	}
	if u.Portfolio.Holdings == nil {
		u.Portfolio.Holdings = []Holding{}
	}
	if u.Portfolio.Transactions == nil {
		u.Portfolio.Transactions = []Transaction{}
	}
	return u, nil
}
