package main

import (
	"time"

	"github.com/santa-next/internal/config"
	"github.com/santa-next/internal/logger"
	"github.com/santa-next/internal/models"
	"github.com/santa-next/internal/token"
)

// 开发环境演示数据：一个未抽签的活动和三名参与者。
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	var existing models.Game
	if err := models.DB.Where("name = ?", "演示活动").First(&existing).Error; err == nil {
		stdLog.Printf("Demo game already exists: %s", existing.ID)
		return
	}

	game := models.Game{
		ID:             token.NewID(),
		Name:           "演示活动",
		GameDate:       time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
		OrganizerEmail: "organizer@example.com",
		AdminToken:     token.NewAccessToken(),
		Locale:         "zh",
	}
	if err := models.DB.Create(&game).Error; err != nil {
		stdLog.Fatalf("Failed to create demo game: %v", err)
	}
	stdLog.Printf("Created demo game: %s", game.ID)
	stdLog.Printf("Admin token: %s", game.AdminToken)

	names := []struct {
		name  string
		email string
	}{
		{name: "小明", email: "xiaoming@example.com"},
		{name: "小红", email: "xiaohong@example.com"},
		{name: "小刚", email: "xiaogang@example.com"},
	}
	for _, item := range names {
		participant := models.Participant{
			ID:        token.NewID(),
			GameID:    game.ID,
			Name:      item.name,
			Email:     item.email,
			ViewToken: token.NewAccessToken(),
		}
		if err := models.DB.Create(&participant).Error; err != nil {
			stdLog.Printf("Failed to create participant %s: %v", item.name, err)
			continue
		}
		stdLog.Printf("Created participant: %s (%s)", item.name, participant.ID)
	}

	stdLog.Printf("Seed done")
}
