package db

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vcampos/pdv-loja/internal/models"
)

func TestSeedIdempotent(t *testing.T) {
	d, err := gorm.Open(sqlite.Open("file:seedtest?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.AutoMigrate(&models.Usuario{}); err != nil {
		t.Fatal(err)
	}
	seed(d)
	seed(d)
	var count int64
	d.Model(&models.Usuario{}).Where("email = ?", "admin@pdvloja.local").Count(&count)
	if count != 1 {
		t.Fatalf("admin deveria existir exatamente uma vez, obtido %d", count)
	}
	var admin models.Usuario
	if err := d.Where("email = ?", "admin@pdvloja.local").First(&admin).Error; err != nil {
		t.Fatalf("load admin: %v", err)
	}
	if admin.Role != "admin" {
		t.Fatalf("role esperada admin, obtida %q", admin.Role)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.SenhaHash), []byte("admin123")) != nil {
		t.Fatalf("senha default não confere")
	}
}
