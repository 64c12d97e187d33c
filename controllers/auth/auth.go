package authController

import (
	"errors"
	"log"
	"time"

	"worksafe/config"
	"worksafe/database"
	"worksafe/middleware"
	"worksafe/models"
	authValidator "worksafe/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 3
	blockDuration   = time.Minute
)

func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	db := database.Database.Db

	var user models.StaffUser
	if err := db.Where("username = ?", reqData.Username).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	now := time.Now()
	if user.BlockedUntil != nil && user.BlockedUntil.After(now) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(reqData.Password)); err != nil {
		user.FailedLoginAttempts++
		// Block user after 3 failed attempts
		if user.FailedLoginAttempts >= maxFailedLogins {
			unblock := now.Add(blockDuration)
			user.BlockedUntil = &unblock
			user.FailedLoginAttempts = 0
			log.Printf("Blocking staff user %q until %s", user.Username, unblock.Format(time.RFC3339))
		}
		if err := db.Save(&user).Error; err != nil {
			log.Printf("Error saving failed login: %v", err)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	user.LastLogin = &now
	user.FailedLoginAttempts = 0
	user.BlockedUntil = nil
	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error saving last login time: %v", err)
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}
	loginTracking := models.LoginTracking{
		Username:  user.Username,
		IPAddress: ip,
		Device:    c.Get("User-Agent"),
		Timestamp: now,
	}
	if err := db.Create(&loginTracking).Error; err != nil {
		log.Printf("Error saving login tracking details: %v", err)
	}

	token, err := middleware.GenerateJWT(user.Username, user.Role)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

func Me(c *fiber.Ctx) error {
	var user models.StaffUser
	if err := database.Database.Db.Where("username = ?", middleware.CurrentUser(c)).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User details.", user)
}

func ChangePassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPassword").(*authValidator.ChangePasswordRequest)
	db := database.Database.Db

	var user models.StaffUser
	if err := db.Where("username = ?", middleware.CurrentUser(c)).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Current password is wrong!", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	if err := db.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update password!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password updated.", nil)
}

func LoginHistoryList(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLoginHistory").(*authValidator.LoginHistoryQuery)
	username := middleware.CurrentUser(c)
	db := database.Database.Db

	var history []models.LoginTracking
	var total int64
	offset := (reqData.Page - 1) * reqData.Limit

	if err := db.Where("username = ?", username).
		Order("timestamp DESC").
		Offset(offset).
		Limit(reqData.Limit).
		Find(&history).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}
	db.Model(&models.LoginTracking{}).Where("username = ?", username).Count(&total)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.", fiber.Map{
		"loginTracking": history,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

func ListStaff(c *fiber.Ctx) error {
	var users []models.StaffUser
	if err := database.Database.Db.Order("username").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch staff!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Staff list.", users)
}

func CreateStaff(c *fiber.Ctx) error {
	reqData := c.Locals("validatedStaff").(*authValidator.CreateStaffRequest)
	db := database.Database.Db

	if err := db.Where("username = ?", reqData.Username).First(&models.StaffUser{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Username is already taken!", nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	user := models.StaffUser{Username: reqData.Username, PasswordHash: string(hash), Role: reqData.Role}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("Error saving staff user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}
	log.Printf("Staff user %q created by %q", user.Username, middleware.CurrentUser(c))
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully.", user)
}

func DeleteStaff(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == middleware.CurrentUser(c) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot delete your own account!", nil)
	}

	res := database.Database.Db.Where("username = ?", username).Delete(&models.StaffUser{})
	if res.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted.", nil)
}
