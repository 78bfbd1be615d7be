package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/satish9484/chat-app/internal/platform"
	"github.com/satish9484/chat-app/pkg/errors"
	"github.com/satish9484/chat-app/pkg/logger"
)

// AuthClient talks to the Identity Toolkit REST API, the same surface the
// web SDK's signInWithEmailAndPassword / createUserWithEmailAndPassword use,
// and maintains the client-side auth-state stream.
type AuthClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *logger.Logger

	mu        sync.Mutex
	current   *platform.Account
	listeners map[int]func(*platform.Account)
	nextID    int
}

const identityToolkitEndpoint = "https://identitytoolkit.googleapis.com/v1"

func NewAuthClient(apiKey string, log *logger.Logger) *AuthClient {
	return &AuthClient{
		apiKey:     apiKey,
		endpoint:   identityToolkitEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log,
		listeners:  make(map[int]func(*platform.Account)),
	}
}

type authResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type authError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (a *AuthClient) SignUp(ctx context.Context, email, password string) (*platform.Account, error) {
	resp, err := a.post(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}
	return a.adopt(resp), nil
}

func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*platform.Account, error) {
	resp, err := a.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}
	return a.adopt(resp), nil
}

func (a *AuthClient) SignOut(ctx context.Context) error {
	a.mu.Lock()
	a.current = nil
	a.notifyLocked()
	a.mu.Unlock()
	return nil
}

func (a *AuthClient) UpdateProfile(ctx context.Context, displayName, photoURL string) error {
	a.mu.Lock()
	current := a.current
	a.mu.Unlock()
	if current == nil {
		return errors.ErrNotSignedIn
	}

	body := map[string]any{
		"idToken":           current.IDToken,
		"returnSecureToken": true,
	}
	if displayName != "" {
		body["displayName"] = displayName
	}
	if photoURL != "" {
		body["photoUrl"] = photoURL
	}
	resp, err := a.post(ctx, "accounts:update", body)
	if err != nil {
		return err
	}

	a.mu.Lock()
	if a.current != nil {
		if resp.DisplayName != "" {
			a.current.DisplayName = resp.DisplayName
		} else if displayName != "" {
			a.current.DisplayName = displayName
		}
		if resp.PhotoURL != "" {
			a.current.PhotoURL = resp.PhotoURL
		} else if photoURL != "" {
			a.current.PhotoURL = photoURL
		}
	}
	a.mu.Unlock()
	return nil
}

func (a *AuthClient) OnAuthStateChanged(fn func(*platform.Account)) func() {
	a.mu.Lock()
	a.nextID++
	id := a.nextID
	a.listeners[id] = fn
	current := cloneAccount(a.current)
	a.mu.Unlock()

	fn(current)
	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *AuthClient) CurrentAccount() *platform.Account {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneAccount(a.current)
}

func (a *AuthClient) adopt(resp *authResponse) *platform.Account {
	account := &platform.Account{
		UID:          resp.LocalID,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		PhotoURL:     resp.PhotoURL,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    tokenExpiry(resp),
	}
	a.mu.Lock()
	a.current = account
	a.notifyLocked()
	a.mu.Unlock()
	snapshot := *account
	return &snapshot
}

// tokenExpiry prefers the exp claim baked into the ID token; expiresIn is the
// fallback. The token is not verified here; that is the platform's job.
func tokenExpiry(resp *authResponse) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.IDToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	if secs, err := strconv.Atoi(resp.ExpiresIn); err == nil {
		return time.Now().Add(time.Duration(secs) * time.Second)
	}
	return time.Now().Add(time.Hour)
}

func (a *AuthClient) post(ctx context.Context, action string, body map[string]any) (*authResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "encode auth request", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", a.endpoint, action, a.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "build auth request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnavailable, "auth request failed", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		var apiErr authError
		_ = json.NewDecoder(httpResp.Body).Decode(&apiErr)
		a.logger.Warn("auth request rejected", "action", action, "code", apiErr.Error.Message)
		return nil, mapAuthError(apiErr.Error.Message)
	}

	var resp authResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "decode auth response", err)
	}
	return &resp, nil
}

func mapAuthError(code string) error {
	switch {
	case code == "EMAIL_EXISTS":
		return errors.ErrEmailTaken
	case code == "EMAIL_NOT_FOUND", code == "INVALID_PASSWORD", code == "INVALID_LOGIN_CREDENTIALS":
		return errors.ErrInvalidCredentials
	case code == "USER_DISABLED":
		return errors.Forbidden("account is disabled")
	case strings.HasPrefix(code, "TOO_MANY_ATTEMPTS"):
		return errors.ErrRateLimited
	default:
		return errors.New(errors.CodeUnknown, "authentication failed: "+code)
	}
}

// notifyLocked delivers outside the lock so listeners may call back in.
func (a *AuthClient) notifyLocked() {
	fns := make([]func(*platform.Account), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	current := cloneAccount(a.current)
	a.mu.Unlock()
	for _, fn := range fns {
		fn(cloneAccount(current))
	}
	a.mu.Lock()
}

func cloneAccount(account *platform.Account) *platform.Account {
	if account == nil {
		return nil
	}
	snapshot := *account
	return &snapshot
}
