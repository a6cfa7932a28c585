package mysql

import (
	"fmt"
	"time"

	"kolibra-order-service/src/pkg/log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
)

type DBInterface interface {
	GetDB() (*sqlx.DB, error)
}

type Connection struct {
	db *sqlx.DB
}

func InitConnection(v *viper.Viper, logger log.Log) (DBInterface, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		v.GetString("database.username"),
		v.GetString("database.password"),
		v.GetString("database.host"),
		v.GetInt("database.port"),
		v.GetString("database.name"),
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		logger.Error("mysql-init", err.Error(), "InitConnection", "")
		return nil, err
	}

	db.SetMaxIdleConns(v.GetInt("database.pool.idle"))
	db.SetMaxOpenConns(v.GetInt("database.pool.max"))
	db.SetConnMaxLifetime(time.Duration(v.GetInt("database.pool.lifetime")) * time.Second)

	logger.Info("mysql-init", "database connection established", "InitConnection", "")
	return &Connection{db: db}, nil
}

func (c *Connection) GetDB() (*sqlx.DB, error) {
	if c.db == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	return c.db, nil
}
