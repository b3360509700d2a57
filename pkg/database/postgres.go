package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	envDSN      = "MARKETSYNC_DSN"
	envEchoSQL  = "MARKETSYNC_DEBUG_SQL"
	fallbackDSN = "host=localhost user=marketsync password=1234 dbname=marketsync port=5432 sslmode=disable"
)

// DSNFromEnv 取连接串：优先 MARKETSYNC_DSN，缺省指向本地开发库
func DSNFromEnv() string {
	if dsn := os.Getenv(envDSN); dsn != "" {
		return dsn
	}
	return fallbackDSN
}

// InitDB 打开 Postgres 连接并迁移同步层表结构
// models: 需要自动建表/迁移的结构体指针（同步账号、商品）
func InitDB(dsn string, models ...interface{}) *gorm.DB {
	// SQL 回显只在显式开关时打开，平台轮询会把日志刷爆
	logMode := logger.Warn
	if os.Getenv(envEchoSQL) != "" {
		logMode = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("获取底层 SQL DB 失败: %v", err)
	}

	// 同步层是长连接低并发场景（串行批量 + 定时任务），池子不用开大
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			log.Fatalf("自动建表出错: %v", err)
		}
	}

	log.Println("数据库连接成功")
	return db
}
