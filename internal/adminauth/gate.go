package adminauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	auth "bookdirectstays/pkg/jwt"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	RoleAdmin = "admin"

	DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Config Gate 配置，所有值由调用方显式注入
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	// Endpoint 为空时使用 Google
	Endpoint    oauth2.Endpoint
	UserInfoURL string
	LandingURL  string
	Timeout     time.Duration
}

// Profile Google 用户信息
type Profile struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Session 登录成功后签发的会话
type Session struct {
	Email       string
	Role        string
	Token       string
	ExpiresAt   time.Time
	RedirectURL string
}

// Gate 管理员登录：OAuth 授权码换令牌、取用户信息、白名单校验、签发 JWT
type Gate struct {
	oauth       *oauth2.Config
	userInfoURL string
	landingURL  string
	timeout     time.Duration
	allow       Allower
	tokens      *auth.TokenManager
	httpClient  *http.Client
	logger      *zap.SugaredLogger
}

// NewGate 创建 Gate，httpClient 为 nil 时使用带超时的默认客户端
func NewGate(cfg Config, allow Allower, tokens *auth.TokenManager, httpClient *http.Client, logger *zap.SugaredLogger) *Gate {
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = DefaultUserInfoURL
	}
	if cfg.LandingURL == "" {
		cfg.LandingURL = "/admin"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Gate{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint:     endpoint,
			Scopes:       []string{"profile", "email"},
		},
		userInfoURL: cfg.UserInfoURL,
		landingURL:  cfg.LandingURL,
		timeout:     cfg.Timeout,
		allow:       allow,
		tokens:      tokens,
		httpClient:  httpClient,
		logger:      logger.Named("admin_auth"),
	}
}

// BeginLogin 构造授权地址，不发起网络请求
func (g *Gate) BeginLogin(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// CompleteLogin 用授权码完成登录，每个外部调用只尝试一次
func (g *Gate) CompleteLogin(ctx context.Context, code string) (*Session, error) {
	if code == "" {
		g.deny(StateUnauthenticated, "缺少授权码")
		return nil, ErrMissingCode
	}
	g.step(StateCodeReceived)

	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)

	exchangeCtx, cancel := context.WithTimeout(ctx, g.timeout)
	tok, err := g.oauth.Exchange(exchangeCtx, code)
	cancel()
	if err != nil {
		g.deny(StateCodeReceived, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if tok.AccessToken == "" {
		g.deny(StateCodeReceived, "响应中没有 access token")
		return nil, fmt.Errorf("%w: empty access token", ErrExchangeFailed)
	}
	g.step(StateTokenExchanged)

	profileCtx, cancel := context.WithTimeout(ctx, g.timeout)
	profile, err := g.fetchProfile(profileCtx, tok.AccessToken)
	cancel()
	if err != nil {
		g.deny(StateTokenExchanged, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	g.step(StateProfileFetched)

	if g.allow == nil || !g.allow.Allowed(profile.Email) {
		g.deny(StateProfileFetched, "邮箱不在白名单内: "+profile.Email)
		return nil, ErrForbidden
	}

	token, err := g.tokens.GenerateToken(profile.Email, RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("签发会话失败: %w", err)
	}
	g.step(StateAuthorized)
	g.logger.Infof("管理员登录成功: %s", profile.Email)

	return &Session{
		Email:       profile.Email,
		Role:        RoleAdmin,
		Token:       token,
		ExpiresAt:   time.Now().Add(g.tokens.TTL()),
		RedirectURL: g.landingURL + "?token=" + url.QueryEscape(token),
	}, nil
}

// Verify 校验会话令牌的签名和有效期
func (g *Gate) Verify(token string) (*auth.Claims, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := g.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Role != RoleAdmin {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func (g *Gate) fetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("获取用户信息失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("读取用户信息失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("获取用户信息失败: status %d", resp.StatusCode)
	}

	var p Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("解析用户信息失败: %w", err)
	}
	if p.Email == "" {
		return nil, errors.New("用户信息中没有邮箱")
	}
	return &p, nil
}

func (g *Gate) step(s State) {
	g.logger.Debugf("登录流程: %s", s)
}

func (g *Gate) deny(from State, reason string) {
	g.logger.Warnf("登录流程: %s -> %s, 原因: %s", from, StateDenied, reason)
}
