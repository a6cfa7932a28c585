package repository

import (
	"context"
	"database/sql"
	"time"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/pkg/databases/mysql"
)

type ServiceRepository struct {
	DB mysql.DBInterface
}

func NewServiceRepository(db mysql.DBInterface) *ServiceRepository {
	return &ServiceRepository{
		DB: db,
	}
}

func (r *ServiceRepository) FindByID(ctx context.Context, id uint64) (*entity.ServiceOffering, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var svc entity.ServiceOffering
	query := `
		SELECT id, name, description, base_price, active, created_at, updated_at
		FROM services
		WHERE id = ?`
	if err := db.GetContext(ctx, &svc, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &svc, nil
}

func (r *ServiceRepository) FindActive(ctx context.Context) ([]entity.ServiceOffering, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var services []entity.ServiceOffering
	query := `
		SELECT id, name, description, base_price, active, created_at, updated_at
		FROM services
		WHERE active = 1
		ORDER BY name`
	if err := db.SelectContext(ctx, &services, query); err != nil {
		return nil, err
	}
	return services, nil
}

func (r *ServiceRepository) Upsert(ctx context.Context, svc *entity.ServiceOffering) (uint64, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return 0, err
	}

	if svc.ID == 0 {
		query := `
			INSERT INTO services (name, description, base_price, active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`
		res, err := db.ExecContext(ctx, query, svc.Name, svc.Description, svc.BasePrice, svc.Active, time.Now(), time.Now())
		if err != nil {
			return 0, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		return uint64(id), nil
	}

	query := `
		UPDATE services
		SET name = ?, description = ?, base_price = ?, active = ?, updated_at = ?
		WHERE id = ?`
	if _, err := db.ExecContext(ctx, query, svc.Name, svc.Description, svc.BasePrice, svc.Active, time.Now(), svc.ID); err != nil {
		return 0, err
	}
	return svc.ID, nil
}
