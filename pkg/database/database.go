package database

import (
	"fmt"

	"bookdirectstays/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitMySQL 连接 MySQL 并迁移表结构，charset 为空时使用 utf8mb4
func InitMySQL(host string, port int, user, password, dbName, charset string) (*gorm.DB, error) {
	connection, err := gorm.Open(mysql.Open(mysqlDSN(host, port, user, password, dbName, charset)), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %v", err)
	}
	return migrate(connection)
}

func mysqlDSN(host string, port int, user, password, dbName, charset string) string {
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		user, password, host, port, dbName, charset)
}

// InitSQLite 本地开发和测试使用，path 可以是 "file::memory:?cache=shared"
func InitSQLite(path string) (*gorm.DB, error) {
	connection, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %v", err)
	}
	return migrate(connection)
}

func migrate(connection *gorm.DB) (*gorm.DB, error) {
	if err := connection.AutoMigrate(&model.Submission{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %v", err)
	}
	return connection, nil
}
