package main

import (
	"log"
	"time"

	"github.com/google/uuid"

	"media-platform/config"
	"media-platform/domain/user"
	"media-platform/utils"
)

type seedUser struct {
	Email       string
	Name        string
	Surname     string
	Alias       string
	Password    string
	Role        string
	VIP         bool
	Description string
	Speciality  string
	ContentType string
}

func main() {
	config.InitConfig()
	config.InitDB()
	defer config.CloseDB()

	users := []seedUser{
		{Email: "admin@media-platform.local", Name: "Platform", Surname: "Admin", Alias: "admin", Password: "Admin1234!", Role: user.RoleAdmin},
		{Email: "demo@media-platform.local", Name: "Demo", Surname: "User", Alias: "demo", Password: "Demo1234!", Role: user.RoleUser},
		{Email: "vip@media-platform.local", Name: "Vip", Surname: "User", Alias: "vip", Password: "VipUser1!", Role: user.RoleUser, VIP: true},
		{Email: "dj@media-platform.local", Name: "Dana", Surname: "Jockey", Alias: "dj-dana", Password: "Creator1!", Role: user.RoleContentManager,
			Description: "Late night electronic sets", Speciality: "Electronic", ContentType: user.ContentTypeAudio},
		{Email: "film@media-platform.local", Name: "Fran", Surname: "Campos", Alias: "fran-films", Password: "Creator1!", Role: user.RoleContentManager,
			Description: "Short documentaries", Speciality: "Documentary", ContentType: user.ContentTypeVideo},
	}

	birthDate := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, u := range users {
		hashed, err := utils.HashPassword(u.Password)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", u.Email, err)
		}

		var vipSince interface{}
		if u.VIP {
			vipSince = time.Now()
		}

		_, err = config.DB.Exec(`
			INSERT INTO users (id, email, name, surname, alias, birth_date, password,
				vip, vip_since, photo, role, description, speciality, content_type,
				blocked, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, false, NOW(), NOW())
		`, uuid.New().String(), u.Email, u.Name, u.Surname, u.Alias, birthDate, hashed,
			u.VIP, vipSince, user.DefaultPhoto, u.Role,
			nullable(u.Description), nullable(u.Speciality), nullable(u.ContentType))
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.Email, err)
		}
		log.Printf("Seeded user: %s (%s)", u.Email, u.Role)
	}
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
