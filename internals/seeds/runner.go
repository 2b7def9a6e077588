package seeds

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	deptModel "weekreport_backend/internals/features/departments/model"
	authService "weekreport_backend/internals/features/users/auth/service"
	userModel "weekreport_backend/internals/features/users/user/model"
)

const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "123456"
)

type departmentSeed struct {
	Name        string
	Description string
}

var defaultDepartments = []departmentSeed{
	{"Phòng Kế hoạch Tổng hợp", "Quản lý kế hoạch và tổng hợp"},
	{"Phòng Điều dưỡng", "Quản lý điều dưỡng và chăm sóc bệnh nhân"},
	{"Phòng KHĐT", "Khoa học đào tạo"},
	{"Phòng QLCL BV", "Quản lý chất lượng bệnh viện"},
	{"Phòng Tài chính Kế toán", "Quản lý tài chính"},
	{"Phòng Hành chính Quản trị", "Hành chính tổng hợp"},
	{"Phòng Tổ chức Cán bộ", "Quản lý nhân sự"},
	{"Phòng Vật tư Thiết bị", "Quản lý vật tư y tế"},
	{"Phòng Khám bệnh", "Khám và điều trị ngoại trú"},
	{"Phòng Xét nghiệm", "Xét nghiệm y học"},
}

var (
	okColor   = color.New(color.FgGreen)
	infoColor = color.New(color.FgCyan)
)

// RunAllSeeds is idempotent: existing rows are left untouched.
func RunAllSeeds(ctx context.Context, db *gorm.DB) error {
	infoColor.Println("🌱 Starting seed...")

	if err := SeedAdmin(ctx, db); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	okColor.Printf("✓ Created user: %s\n", AdminEmail)

	n, err := SeedDepartments(ctx, db)
	if err != nil {
		return fmt.Errorf("seed departments: %w", err)
	}
	okColor.Printf("✓ Created %d departments\n", n)

	fmt.Println()
	okColor.Println("✅ Seed completed!")
	infoColor.Printf("📧 Email: %s\n🔑 Password: %s\n", AdminEmail, AdminPassword)
	return nil
}

func SeedAdmin(ctx context.Context, db *gorm.DB) error {
	hash, err := authService.HashPassword(AdminPassword)
	if err != nil {
		return err
	}
	u := userModel.UserModel{
		UserName: "Admin",
		Email:    AdminEmail,
		Password: hash,
		IsActive: true,
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&u).Error
}

// SeedDepartments inserts the missing default departments and returns how many it created.
func SeedDepartments(ctx context.Context, db *gorm.DB) (int, error) {
	created := 0
	for _, d := range defaultDepartments {
		var count int64
		if err := db.WithContext(ctx).Model(&deptModel.DepartmentModel{}).
			Where("department_name = ?", d.Name).
			Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}
		desc := d.Description
		row := deptModel.DepartmentModel{DepartmentName: d.Name, DepartmentDescription: &desc}
		if err := db.WithContext(ctx).Create(&row).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
