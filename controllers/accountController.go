package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coin-market/auth"
	"coin-market/config"
	"coin-market/db"
	"coin-market/game"
	"coin-market/models"
)

// AccountController covers sign-up, sign-in and the per-user actions that
// are not trades.
type AccountController struct {
	auth     *auth.Service
	accounts db.AccountStore
	users    db.UserStore
	market   *MarketController
	cfg      config.GameConfig
	loc      *time.Location
	now      func() time.Time
	log      *slog.Logger
}

func NewAccountController(svc *auth.Service, accounts db.AccountStore, users db.UserStore, market *MarketController, cfg config.GameConfig, loc *time.Location, logger *slog.Logger) *AccountController {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountController{
		auth:     svc,
		accounts: accounts,
		users:    users,
		market:   market,
		cfg:      cfg,
		loc:      loc,
		now:      time.Now,
		log:      logger,
	}
}

type RegisterRequest struct {
	Handle   string `json:"handle" binding:"required"`
	Password string `json:"password" binding:"required"`
	Nickname string `json:"nickname" binding:"required"`
}

type LoginRequest struct {
	Handle   string `json:"handle" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// MeResponse is the caller's document plus its live mark-to-market value.
type MeResponse struct {
	User      *models.User `json:"user"`
	LiveTotal int64        `json:"liveTotal"`
}

// Register creates the identity account and the user document with the
// starting cash, then signs the new user in.
func (ac *AccountController) Register(ctx context.Context, handle, password, nickname string) (string, *models.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return "", nil, ErrInvalidInput
	}
	email, err := ac.auth.EmailFor(handle)
	if err != nil {
		return "", nil, err
	}
	hash, err := ac.auth.HashPassword(password)
	if err != nil {
		return "", nil, err
	}

	if _, err := ac.users.FindUserByNickname(ctx, nickname); err == nil {
		return "", nil, ErrNicknameTaken
	} else if !errors.Is(err, db.ErrNotFound) {
		return "", nil, err
	}
	if _, err := ac.accounts.FindAccountByEmail(ctx, email); err == nil {
		return "", nil, ErrHandleTaken
	} else if !errors.Is(err, db.ErrNotFound) {
		return "", nil, err
	}

	now := ac.now()
	uid := uuid.NewString()
	acct := &models.Account{UID: uid, Email: email, PasswordHash: hash, CreatedAt: now.UTC()}
	if err := ac.accounts.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return "", nil, ErrHandleTaken
		}
		return "", nil, err
	}

	u := &models.User{
		UID:             uid,
		Nickname:        nickname,
		Email:           email,
		Cash:            ac.cfg.StartingCash,
		Holdings:        map[string]models.Holding{},
		History:         []models.TradeRecord{},
		TotalAsset:      ac.cfg.StartingCash,
		HourlyAsset:     ac.cfg.StartingCash,
		LastHourChecked: now.In(ac.loc).Hour(),
		LastLoginDate:   game.CalendarDate(now, ac.loc),
		CreatedAt:       now.UTC(),
	}
	if err := ac.users.CreateUser(ctx, u); err != nil {
		if rbErr := ac.accounts.DeleteAccount(ctx, uid); rbErr != nil {
			ac.log.Error("register rollback failed", slog.String("uid", uid), slog.String("error", rbErr.Error()))
		}
		if errors.Is(err, db.ErrDuplicate) {
			return "", nil, ErrNicknameTaken
		}
		return "", nil, err
	}

	token, err := ac.auth.IssueToken(uid)
	if err != nil {
		return "", nil, err
	}
	ac.log.Info("user registered", slog.String("uid", uid), slog.String("nickname", nickname))
	return token, u, nil
}

// Login checks the credentials, issues a token and runs the rollover.
func (ac *AccountController) Login(ctx context.Context, handle, password string) (string, *models.User, error) {
	email, err := ac.auth.EmailFor(handle)
	if err != nil {
		return "", nil, auth.ErrInvalidCredentials
	}
	acct, err := ac.accounts.FindAccountByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return "", nil, auth.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if err := ac.auth.CheckPassword(acct.PasswordHash, password); err != nil {
		return "", nil, err
	}

	u, err := ac.Resume(ctx, acct.UID)
	if err != nil {
		return "", nil, err
	}
	token, err := ac.auth.IssueToken(acct.UID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Resume applies the day and hour rollover to uid's document, saving only
// when something rolled.
func (ac *AccountController) Resume(ctx context.Context, uid string) (*models.User, error) {
	coins, err := ac.market.Coins(ctx)
	if err != nil {
		return nil, err
	}
	now := ac.now()
	return mutateUser(ctx, ac.users, uid, func(u *models.User) error {
		r := game.Reconcile(u, coins, now, ac.loc)
		if !r.Changed() {
			return errUnchanged
		}
		ac.log.Debug("rollover",
			slog.String("uid", uid),
			slog.Bool("day", r.DayRolled),
			slog.Bool("hour", r.HourRolled),
		)
		return nil
	})
}

// Me returns the caller with a live valuation at the current prices.
func (ac *AccountController) Me(ctx context.Context, uid string) (MeResponse, error) {
	u, err := ac.users.GetUser(ctx, uid)
	if err != nil {
		return MeResponse{}, err
	}
	coins, err := ac.market.Coins(ctx)
	if err != nil {
		return MeResponse{}, err
	}
	return MeResponse{User: u, LiveTotal: game.MarkToMarket(u, coins)}, nil
}

// ClaimAttendance pays the daily attendance reward once per calendar day.
func (ac *AccountController) ClaimAttendance(ctx context.Context, uid string) (*models.User, error) {
	today := game.CalendarDate(ac.now(), ac.loc)
	return mutateUser(ctx, ac.users, uid, func(u *models.User) error {
		if u.LastAttendanceDate == today {
			return ErrAlreadyClaimed
		}
		u.Cash += ac.cfg.AttendanceReward
		u.LastAttendanceDate = today
		return nil
	})
}

// ClaimSupport pays the relief fund once per day to users whose live total
// has fallen to the threshold or below.
func (ac *AccountController) ClaimSupport(ctx context.Context, uid string) (*models.User, error) {
	coins, err := ac.market.Coins(ctx)
	if err != nil {
		return nil, err
	}
	today := game.CalendarDate(ac.now(), ac.loc)
	return mutateUser(ctx, ac.users, uid, func(u *models.User) error {
		if game.MarkToMarket(u, coins) > ac.cfg.SupportThreshold {
			return ErrNotEligible
		}
		if u.LastSupportDate == today {
			return ErrAlreadyClaimed
		}
		u.Cash += ac.cfg.SupportReward
		u.LastSupportDate = today
		return nil
	})
}

// Withdraw deletes the user document and the identity account.
func (ac *AccountController) Withdraw(ctx context.Context, uid string) error {
	if err := ac.users.DeleteUser(ctx, uid); err != nil && !errors.Is(err, db.ErrNotFound) {
		return err
	}
	if err := ac.accounts.DeleteAccount(ctx, uid); err != nil && !errors.Is(err, db.ErrNotFound) {
		return err
	}
	ac.log.Info("user withdrew", slog.String("uid", uid))
	return nil
}

func (ac *AccountController) RegisterHandler(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, ErrInvalidInput)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	token, u, err := ac.Register(ctx, req.Handle, req.Password, req.Nickname)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{Token: token, User: u})
}

func (ac *AccountController) LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, ErrInvalidInput)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	token, u, err := ac.Login(ctx, req.Handle, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Token: token, User: u})
}

func (ac *AccountController) LogoutHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if claims, ok := c.Get(ContextClaims); ok {
		if err := ac.auth.Revoke(ctx, claims.(*auth.Claims)); err != nil {
			RespondError(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}

func (ac *AccountController) MeHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	me, err := ac.Me(ctx, c.GetString(ContextUID))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, me)
}

func (ac *AccountController) ResumeHandler(c *gin.Context) {
	ac.respondUser(c, ac.Resume)
}

func (ac *AccountController) AttendanceHandler(c *gin.Context) {
	ac.respondUser(c, ac.ClaimAttendance)
}

func (ac *AccountController) SupportHandler(c *gin.Context) {
	ac.respondUser(c, ac.ClaimSupport)
}

// WithdrawHandler deletes the caller and revokes the token used.
func (ac *AccountController) WithdrawHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := ac.Withdraw(ctx, c.GetString(ContextUID)); err != nil {
		RespondError(c, err)
		return
	}
	if claims, ok := c.Get(ContextClaims); ok {
		if err := ac.auth.Revoke(ctx, claims.(*auth.Claims)); err != nil {
			ac.log.Warn("revoke after withdraw", slog.String("error", err.Error()))
		}
	}
	c.Status(http.StatusNoContent)
}

func (ac *AccountController) respondUser(c *gin.Context, fn func(context.Context, string) (*models.User, error)) {
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := fn(ctx, c.GetString(ContextUID))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
