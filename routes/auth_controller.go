package routes

import (
	"crypto/rand"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/canova-hq/canova-server/app"
	"github.com/canova-hq/canova-server/httpx"
	"github.com/canova-hq/canova-server/model"
	"github.com/canova-hq/canova-server/routes/middlewares"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpTTL        = 10 * time.Minute
	resetTokenTTL = 15 * time.Minute
)

func signToken(app app.App, user model.User) (string, error) {
	claims := map[string]interface{}{"user_id": user.ID}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, app.TokenTTL)

	_, token, err := app.Encode(claims)
	return token, err
}

func userResponse(user model.User) map[string]any {
	return map[string]any{
		"id":       user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"mobile":   user.Mobile,
		"location": user.Location,
		"theme":    user.Theme,
	}
}

func Signup(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := struct {
			Name     string `json:"name" validate:"required"`
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
		}{}
		if err := httpx.DecodeValid(r, &body); err != nil {
			httpx.WriteError(w, r, "signup.parse_body", err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			httpx.WriteError(w, r, "signup.hash_password", err)
			return
		}

		user := model.User{
			ID:           model.NewID(),
			Name:         strings.TrimSpace(body.Name),
			Email:        strings.ToLower(strings.TrimSpace(body.Email)),
			PasswordHash: string(hash),
			Location:     "USA",
			Theme:        "light",
		}
		if err := app.InsertUser(r.Context(), &user); err != nil {
			httpx.WriteError(w, r, "db.insert_user", err)
			return
		}

		token, err := signToken(app, user)
		if err != nil {
			httpx.WriteError(w, r, "signup.sign_token", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"token": token,
			"user":  userResponse(user),
		})
	}
}

func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
		}{}
		if err := httpx.DecodeValid(r, &body); err != nil {
			httpx.WriteError(w, r, "login.parse_body", err)
			return
		}

		user, err := app.UserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(body.Email)))
		if model.IsNotFound(err) {
			httpx.WriteError(w, r, "login", model.Invalid("Invalid credentials"))
			return
		}
		if err != nil {
			httpx.WriteError(w, r, "db.get_user", err)
			return
		}

		err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password))
		if err != nil {
			httpx.WriteError(w, r, "login", model.Invalid("Invalid credentials"))
			return
		}

		token, err := signToken(app, user)
		if err != nil {
			httpx.WriteError(w, r, "login.sign_token", err)
			return
		}
		render.JSON(w, r, map[string]any{
			"token": token,
			"user":  userResponse(user),
		})
	}
}

func ForgotPassword(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := struct {
			Email string `json:"email" validate:"required,email"`
		}{}
		if err := httpx.DecodeValid(r, &body); err != nil {
			httpx.WriteError(w, r, "forgot_password.parse_body", err)
			return
		}

		user, err := app.UserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(body.Email)))
		if model.IsNotFound(err) {
			// do not reveal whether the account exists
			render.JSON(w, r, map[string]any{
				"message": "If that email exists, an OTP has been sent.",
			})
			return
		}
		if err != nil {
			httpx.WriteError(w, r, "db.get_user", err)
			return
		}

		otp := generateOTP()
		user.OTPCode = otp
		user.OTPExpiresAt = time.Now().UTC().Add(otpTTL)
		if err := app.UpdateUser(r.Context(), &user); err != nil {
			httpx.WriteError(w, r, "db.update_user", err)
			return
		}

		if err := app.Mailer.SendOTP(r.Context(), user.Email, otp); err != nil {
			if !app.Production() {
				// developer convenience: hand the OTP back when mail is down
				render.JSON(w, r, map[string]any{
					"message":   "Email service unavailable in development. Use OTP from response.",
					"emailSent": false,
					"otp":       otp,
				})
				return
			}
			httpx.WriteError(w, r, "forgot_password.send_mail",
				model.Unavailable("Unable to send OTP email right now. Please try again."))
			return
		}

		render.JSON(w, r, map[string]any{
			"message":   "OTP sent to your email",
			"emailSent": true,
		})
	}
}

func VerifyOTP(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := struct {
			Email string `json:"email" validate:"required,email"`
			OTP   string `json:"otp" validate:"required"`
		}{}
		if err := httpx.DecodeValid(r, &body); err != nil {
			httpx.WriteError(w, r, "verify_otp.parse_body", err)
			return
		}

		user, err := app.UserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(body.Email)))
		if err != nil || user.OTPCode == "" || user.OTPCode != body.OTP ||
			time.Now().UTC().After(user.OTPExpiresAt) {
			httpx.WriteError(w, r, "verify_otp", model.Invalid("Invalid or expired OTP"))
			return
		}

		resetToken := model.NewID()
		user.ResetToken = resetToken
		user.ResetExpires = time.Now().UTC().Add(resetTokenTTL)
		user.OTPCode = ""
		user.OTPExpiresAt = time.Time{}
		if err := app.UpdateUser(r.Context(), &user); err != nil {
			httpx.WriteError(w, r, "db.update_user", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"message":    "OTP verified",
			"resetToken": resetToken,
		})
	}
}

func ResetPassword(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := struct {
			Email      string `json:"email" validate:"required,email"`
			ResetToken string `json:"resetToken" validate:"required"`
			Password   string `json:"password" validate:"required"`
		}{}
		if err := httpx.DecodeValid(r, &body); err != nil {
			httpx.WriteError(w, r, "reset_password.parse_body", err)
			return
		}

		user, err := app.UserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(body.Email)))
		if err != nil || user.ResetToken == "" || user.ResetToken != body.ResetToken ||
			time.Now().UTC().After(user.ResetExpires) {
			httpx.WriteError(w, r, "reset_password", model.Invalid("Invalid or expired reset token"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			httpx.WriteError(w, r, "reset_password.hash_password", err)
			return
		}

		user.PasswordHash = string(hash)
		user.ResetToken = ""
		user.ResetExpires = time.Time{}
		if err := app.UpdateUser(r.Context(), &user); err != nil {
			httpx.WriteError(w, r, "db.update_user", err)
			return
		}

		render.JSON(w, r, map[string]any{"message": "Password reset successful"})
	}
}

func Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.CurrentUser(r)
		render.JSON(w, r, map[string]any{"user": userResponse(user)})
	}
}

func UpdateMe(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.CurrentUser(r)

		body := struct {
			Name     *string `json:"name"`
			Email    *string `json:"email"`
			Mobile   *string `json:"mobile"`
			Location *string `json:"location"`
		}{}
		if err := httpx.DecodeJSON(r, &body); err != nil {
			httpx.WriteError(w, r, "update_me.parse_body", err)
			return
		}

		if body.Name != nil {
			if name := strings.TrimSpace(*body.Name); name != "" {
				user.Name = name
			}
		}
		if body.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*body.Email))
			if email == "" {
				httpx.WriteError(w, r, "update_me", model.Invalid("Email is required"))
				return
			}
			user.Email = email
		}
		if body.Mobile != nil {
			user.Mobile = strings.TrimSpace(*body.Mobile)
		}
		if body.Location != nil {
			user.Location = strings.TrimSpace(*body.Location)
			if user.Location == "" {
				user.Location = "USA"
			}
		}

		if err := app.UpdateUser(r.Context(), &user); err != nil {
			httpx.WriteError(w, r, "db.update_user", err)
			return
		}
		render.JSON(w, r, map[string]any{
			"message": "Profile updated",
			"user":    userResponse(user),
		})
	}
}

func UpdateSettings(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.CurrentUser(r)

		body := struct {
			Theme string `json:"theme"`
		}{}
		if err := httpx.DecodeJSON(r, &body); err != nil {
			httpx.WriteError(w, r, "update_settings.parse_body", err)
			return
		}
		if body.Theme != "light" && body.Theme != "dark" {
			httpx.WriteError(w, r, "update_settings", model.Invalid("Invalid theme"))
			return
		}

		user.Theme = body.Theme
		if err := app.UpdateUser(r.Context(), &user); err != nil {
			httpx.WriteError(w, r, "db.update_user", err)
			return
		}
		render.JSON(w, r, map[string]any{
			"message": "Settings updated",
			"user":    userResponse(user),
		})
	}
}

func generateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(err) // crypto/rand failure is unrecoverable
	}
	return big.NewInt(100000 + n.Int64()).String()
}
