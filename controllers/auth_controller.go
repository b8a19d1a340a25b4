package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LoanRangers/SelfServiceLoaningBackend/app"
	"github.com/LoanRangers/SelfServiceLoaningBackend/db"
	"github.com/LoanRangers/SelfServiceLoaningBackend/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthController drives the OAuth code flow against the external GitLab
// instance and issues the JWT session cookie. Users are provisioned lazily
// on the first successful callback.
type AuthController struct {
	Repo   *db.Repo
	Sess   *session.AppSessionStore
	Config app.Config
	HTTP   *http.Client
}

func NewAuthController(repo *db.Repo, sess *session.AppSessionStore, cfg app.Config) *AuthController {
	return &AuthController{
		Repo:   repo,
		Sess:   sess,
		Config: cfg,
		HTTP:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (ac *AuthController) redirectURI(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || strings.HasPrefix(ac.Config.WebOrigin, "https://") {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/auth/callback", scheme, c.Request.Host)
}

func (ac *AuthController) Login(c *gin.Context) {
	q := url.Values{}
	q.Set("client_id", ac.Config.ClientID)
	q.Set("redirect_uri", ac.redirectURI(c))
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	c.Redirect(http.StatusFound, ac.Config.GitLabURL+"/oauth/authorize?"+q.Encode())
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type userInfo struct {
	Nickname string `json:"nickname"`
	Name     string `json:"name"`
}

func (ac *AuthController) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, app.H{"code": "VALIDATION", "error": "authorization code missing"})
		return
	}

	tok, err := ac.exchangeCode(c.Request.Context(), code, ac.redirectURI(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"code": "AUTH", "error": "token exchange failed"})
		return
	}
	ui, err := ac.fetchUserInfo(c.Request.Context(), tok.AccessToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"code": "AUTH", "error": "userinfo fetch failed"})
		return
	}

	u, err := ac.Repo.FindOrCreateUser(c.Request.Context(), ui.Nickname, ui.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	sid := uuid.NewString()
	if err := ac.Sess.Create(c.Request.Context(), sid, u.SsoID); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"code": "AUTH", "error": "session create failed"})
		return
	}
	signed, err := ac.signSessionToken(u.SsoID, u.SsoName, sid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"code": "AUTH", "error": "token sign failed"})
		return
	}

	secure := strings.HasPrefix(ac.Config.WebOrigin, "https://")
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(ac.Config.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
	c.Redirect(http.StatusFound, ac.Config.FrontendURL+"/")
}

func (ac *AuthController) Me(c *gin.Context) {
	u, err := ac.Repo.FindUserBySsoID(c.Request.Context(), app.SsoID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		if claims, err := app.ParseSessionToken(ck.Value, ac.Config.JWTSecret); err == nil {
			_ = ac.Sess.Delete(c.Request.Context(), claims.SessionID)
		}
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(ac.Config.WebOrigin, "https://"),
	})
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (ac *AuthController) signSessionToken(ssoID, name, sid string) (string, error) {
	now := time.Now()
	claims := app.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ssoID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ac.Config.SessionTTL)),
		},
		SessionID: sid,
		Name:      name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ac.Config.JWTSecret))
}

func (ac *AuthController) exchangeCode(ctx context.Context, code, redirectURI string) (*tokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", ac.Config.ClientID)
	form.Set("client_secret", ac.Config.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		ac.Config.GitLabURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ac.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned %s", resp.Status)
	}
	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (ac *AuthController) fetchUserInfo(ctx context.Context, accessToken string) (*userInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		ac.Config.GitLabURL+"/oauth/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := ac.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned %s", resp.Status)
	}
	var ui userInfo
	if err := json.NewDecoder(resp.Body).Decode(&ui); err != nil {
		return nil, err
	}
	if ui.Nickname == "" {
		return nil, fmt.Errorf("userinfo missing nickname")
	}
	return &ui, nil
}
