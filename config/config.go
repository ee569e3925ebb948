package config

import (
	"os"
	"strconv"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB membuka koneksi database sesuai env.
// Default pakai SQLite (file lokal); set DB_DRIVER=mysql untuk production.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")

	var db *gorm.DB
	var err error

	if driver == "mysql" {
		db, err = gorm.Open(mysql.Open(mysqlDSN()), &gorm.Config{})
	} else {
		dbPath := os.Getenv("DB_PATH")
		if dbPath == "" {
			dbPath = "./board.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func mysqlDSN() string {
	user := getEnv("MYSQL_USER", "root")
	password := getEnv("MYSQL_PASSWORD", "")
	host := getEnv("MYSQL_HOST", "127.0.0.1")
	port := getEnv("MYSQL_PORT", "3306")
	name := getEnv("MYSQL_DB", "notice_board")
	return user + ":" + password + "@tcp(" + host + ":" + port + ")/" + name +
		"?charset=utf8mb4&parseTime=True&loc=Local"
}

// UploadPath direktori penyimpanan file upload
func UploadPath() string {
	return getEnv("UPLOAD_PATH", "./uploads")
}

// MaxFileSize batas ukuran upload dalam byte (default 50MB)
func MaxFileSize() int64 {
	if v := os.Getenv("MAX_FILE_SIZE"); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil && size > 0 {
			return size
		}
	}
	return 50 * 1024 * 1024
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
