// 创建管理员账号脚本
//
// 管理员接口（删除测验等）需要 admin 角色，首次部署后用此脚本创建。
//
// 用法: go run scripts/create_admin.go -email admin@example.com -password xxx -name Admin
package main

import (
	"flag"
	"log"
	"quizforge_backend/internal/config"
	"quizforge_backend/internal/model"
	"quizforge_backend/pkg/database"
	"quizforge_backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	email := flag.String("email", "", "管理员邮箱")
	password := flag.String("password", "", "登录密码")
	name := flag.String("name", "Admin", "显示名称")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("必须指定 -email 和 -password")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("密码加密失败: %v", err)
	}

	var user model.User
	err = db.Where("email = ?", *email).First(&user).Error
	switch {
	case err == nil:
		user.Role = model.RoleAdmin
		user.Password = string(hashed)
		if err := db.Save(&user).Error; err != nil {
			log.Fatalf("更新用户失败: %v", err)
		}
		log.Printf("已将 %s 提升为管理员", *email)
	case err == gorm.ErrRecordNotFound:
		user = model.User{
			Name:     *name,
			Email:    *email,
			Password: string(hashed),
			Role:     model.RoleAdmin,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("创建用户失败: %v", err)
		}
		log.Printf("管理员 %s 创建成功", *email)
	default:
		log.Fatalf("查询用户失败: %v", err)
	}
}
