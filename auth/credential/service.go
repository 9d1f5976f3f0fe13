package credential

import (
	"context"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/habit/auth"
	"github.com/kbukum/habit/auth/authctx"
	"github.com/kbukum/habit/auth/jwt"
	"github.com/kbukum/habit/auth/password"
	apperrors "github.com/kbukum/habit/errors"
	"github.com/kbukum/habit/logger"
	"github.com/kbukum/habit/observability"
	"github.com/kbukum/habit/validation"
)

// Operation names used for spans, metrics and logs.
const (
	OpLogIn          = "credential.log_in"
	OpRegister       = "credential.register"
	OpChangePassword = "credential.change_password"
	OpVerify         = "credential.verify"
)

// NameMaxLength bounds the login key.
const NameMaxLength = 32

// unknownSalt is hashed against when the login key does not exist.
const unknownSalt = "$2b$12$unknownunknownunknownu"

// Service runs the credential and token lifecycle over a Store.
type Service struct {
	store   Store
	hasher  password.Hasher
	salter  password.Salter
	tokens  *jwt.Service[*Claims]
	policy  password.Config
	now     func() time.Time
	log     *logger.Logger
	tracer  trace.Tracer
	metrics *observability.Metrics
}

var _ auth.Authenticator = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger. The component field is added by the service.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithMetrics sets the metric instruments. Nil disables metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithHasher overrides the hasher built from configuration.
func WithHasher(h password.Hasher) Option {
	return func(s *Service) { s.hasher = h }
}

// WithSalter overrides the salt generator built from configuration.
func WithSalter(salter password.Salter) Option {
	return func(s *Service) { s.salter = salter }
}

// NewService builds the credential service. It fails when the configuration
// is invalid, in particular when the JWT secret is missing.
func NewService(cfg auth.Config, store Store, opts ...Option) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tokens, err := jwt.NewService(&cfg.JWT, newClaims)
	if err != nil {
		return nil, err
	}
	hasher, err := password.NewHasher(cfg.Password)
	if err != nil {
		return nil, err
	}

	s := &Service{
		store:  store,
		hasher: hasher,
		salter: password.NewSalter(cfg.Password),
		tokens: tokens,
		policy: cfg.Password,
		now:    time.Now,
		log:    logger.GetGlobalLogger(),
		tracer: observability.Tracer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("credential")
	return s, nil
}

// LogIn checks name and password and returns a fresh access token.
// An unknown name and a wrong password both fail with InvalidCredentials.
func (s *Service) LogIn(ctx context.Context, name, pw string) (token string, err error) {
	ctx, op := s.start(ctx, OpLogIn)
	defer func() { op.End(ctx, err) }()

	if err := requireFields(
		field{"name", "Name", name},
		field{"password", "Password", pw},
	); err != nil {
		return "", err
	}
	rec, err := s.Validate(ctx, FromPassword(name, pw))
	if err != nil {
		return "", err
	}
	op.SetAttributes(attribute.String(observability.AttrUserID, rec.ID))
	return s.issue(ctx, OpLogIn, rec)
}

// RegisterInput carries the fields of a new credential.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a credential and returns its first access token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (token string, err error) {
	ctx, op := s.start(ctx, OpRegister)
	defer func() { op.End(ctx, err) }()

	if err := requireFields(
		field{"name", "Name", in.Name},
		field{"password", "Password", in.Password},
		field{"email", "Email", in.Email},
	); err != nil {
		return "", err
	}
	v := validation.New().
		Tag("name", in.Name, "alphanum").
		MaxLength("name", in.Name, NameMaxLength).
		Tag("email", in.Email, "email")
	s.checkPassword(v, "password", in.Password)
	if verr := v.Validate(); verr != nil {
		return "", verr
	}

	existing, err := s.store.FindByLoginKey(ctx, in.Name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", apperrors.CredentialExists()
	}

	rec, err := s.newRecord(in)
	if err != nil {
		return "", err
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return "", err
	}
	op.SetAttributes(attribute.String(observability.AttrUserID, rec.ID))
	s.log.WithContext(ctx).Info("credential registered", logger.Fields("id", rec.ID, "name", rec.Name))
	return s.issue(ctx, OpRegister, rec)
}

// ChangePassword re-checks the current password, stores a new salt and
// secret and moves the password epoch forward. Tokens issued before the
// change stop verifying. An unchanged password fails before any lookup.
func (s *Service) ChangePassword(ctx context.Context, name, pw, newPw string) (token string, err error) {
	ctx, op := s.start(ctx, OpChangePassword)
	defer func() { op.End(ctx, err) }()

	if err := requireFields(
		field{"name", "Name", name},
		field{"password", "Password", pw},
		field{"new_password", "New password", newPw},
	); err != nil {
		return "", err
	}
	v := validation.New()
	s.checkPassword(v, "new_password", newPw)
	if verr := v.Validate(); verr != nil {
		return "", verr
	}
	if newPw == pw {
		return "", apperrors.PasswordUnchanged()
	}

	rec, err := s.Validate(ctx, FromPassword(name, pw))
	if err != nil {
		return "", err
	}
	op.SetAttributes(attribute.String(observability.AttrUserID, rec.ID))

	salt, secret, err := s.hashNew(newPw)
	if err != nil {
		return "", err
	}
	updated := rec.Clone()
	updated.Salt = salt
	updated.Secret = secret
	updated.LastPasswordChange = nextEpoch(rec.LastPasswordChange, s.now())
	if err := s.store.Update(ctx, updated); err != nil {
		return "", err
	}
	s.log.WithContext(ctx).Info("password changed", logger.Fields("id", updated.ID, "epoch", updated.Epoch()))
	return s.issue(ctx, OpChangePassword, updated)
}

// Authenticate resolves a bearer token to an identity. Any failure leaves the
// caller anonymous; the reason is logged and counted, never returned.
func (s *Service) Authenticate(ctx context.Context, bearerToken string) (authctx.Identity, bool) {
	if bearerToken == "" {
		return authctx.Identity{}, false
	}
	id, err := s.Verify(ctx, bearerToken)
	if err != nil {
		reason := observability.Outcome(err)
		s.metrics.RecordTokenRejected(ctx, reason)
		log := s.log.WithContext(ctx)
		if appErr, ok := apperrors.AsAppError(err); ok && apperrors.IsTokenCode(appErr.Code) {
			log.Debug("bearer token rejected", logger.Fields(logger.FieldReason, reason))
		} else {
			log.WithError(err).Warn("bearer token could not be verified")
		}
		return authctx.Identity{}, false
	}
	return id, true
}

// Verify checks a token's structure, signature and expiry, then resolves its
// subject and rejects it if the password changed after it was issued.
func (s *Service) Verify(ctx context.Context, token string) (id authctx.Identity, err error) {
	ctx, op := s.start(ctx, OpVerify)
	defer func() { op.End(ctx, err) }()

	claims, err := s.tokens.Parse(token, s.now())
	if err != nil {
		return authctx.Identity{}, err
	}
	tc, ok := claims.credentials()
	if !ok {
		return authctx.Identity{}, apperrors.MalformedToken("user claim is incomplete")
	}
	rec, err := s.Validate(ctx, Credentials{kind: KindToken, token: tc})
	if err != nil {
		return authctx.Identity{}, err
	}
	op.SetAttributes(attribute.String(observability.AttrUserID, rec.ID))
	return rec.Identity(), nil
}

// Validate resolves credentials to the stored record. It only reads.
//
// Password credentials fail with InvalidCredentials for an unknown name and
// for a wrong password alike. Token credentials fail with UnknownSubject or
// StaleToken.
func (s *Service) Validate(ctx context.Context, creds Credentials) (*Record, error) {
	if pc, ok := creds.Password(); ok {
		return s.validatePassword(ctx, pc)
	}
	if tc, ok := creds.Token(); ok {
		return s.validateToken(ctx, tc)
	}
	s.log.WithContext(ctx).Debug("credentials of unsupported kind",
		logger.Fields("kind", creds.Kind().String()))
	return nil, apperrors.InvalidCredentials()
}

// Issue mints an access token for rec as of now.
func (s *Service) Issue(rec *Record) (string, error) {
	return s.mint(rec, s.now())
}

func (s *Service) validatePassword(ctx context.Context, pc PasswordCredentials) (*Record, error) {
	rec, err := s.store.FindByLoginKey(ctx, pc.Name)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		// Unknown names pay for one hash like wrong passwords do.
		_, _ = s.hasher.Hash(pc.Password, unknownSalt)
		return nil, apperrors.InvalidCredentials()
	}
	secret, err := s.hasher.Hash(pc.Password, rec.Salt)
	if err != nil {
		// Unhashable input can never match; failing differently would reveal
		// that the name exists.
		s.log.WithContext(ctx).Debug("supplied password could not be hashed",
			logger.Fields(logger.FieldReason, err.Error()))
		return nil, apperrors.InvalidCredentials()
	}
	if !password.Equal(secret, rec.Secret) {
		return nil, apperrors.InvalidCredentials()
	}
	return rec, nil
}

func (s *Service) validateToken(ctx context.Context, tc TokenCredentials) (*Record, error) {
	rec, err := s.store.FindByID(ctx, tc.ID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.UnknownSubject(tc.ID)
	}
	if rec.Epoch() > tc.PasswordEpoch {
		return nil, apperrors.StaleToken()
	}
	return rec, nil
}

func (s *Service) newRecord(in RegisterInput) (*Record, error) {
	salt, secret, err := s.hashNew(in.Password)
	if err != nil {
		return nil, err
	}
	return &Record{
		Name:               in.Name,
		Email:              in.Email,
		Salt:               salt,
		Secret:             secret,
		LastPasswordChange: s.now().Truncate(time.Second),
	}, nil
}

// hashNew draws a fresh salt and hashes pw with it.
func (s *Service) hashNew(pw string) (salt, secret string, err error) {
	salt, err = s.salter.Salt()
	if err != nil {
		return "", "", apperrors.HashingFailure(err)
	}
	secret, err = s.hasher.Hash(pw, salt)
	if err != nil {
		return "", "", apperrors.HashingFailure(err)
	}
	return salt, secret, nil
}

func (s *Service) checkPassword(v *validation.Validator, name, pw string) {
	v.MinLength(name, pw, s.policy.MinLength).MaxLength(name, pw, s.policy.MaxLength)
}

func (s *Service) issue(ctx context.Context, op string, rec *Record) (string, error) {
	token, err := s.mint(rec, s.now())
	if err != nil {
		s.log.WithContext(ctx).WithError(err).Error("token signing failed", logger.Fields(logger.FieldOperation, op))
		return "", err
	}
	s.metrics.RecordTokenIssued(ctx, op)
	return token, nil
}

// mint issues on a whole second so the token lives exactly [iat, iat+TTL).
func (s *Service) mint(rec *Record, now time.Time) (string, error) {
	now = now.Truncate(time.Second)
	epoch := rec.Epoch()
	return s.tokens.Generate(&Claims{
		User: &UserClaim{ID: rec.ID, LastPasswordUpdate: &epoch},
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    s.tokens.Issuer(),
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.tokens.TTL())),
		},
	})
}

func (s *Service) start(ctx context.Context, name string) (context.Context, *observability.Operation) {
	return observability.StartOperation(ctx, s.tracer, s.metrics, name)
}

type field struct {
	key, label, value string
}

// requireFields returns MissingField for the first empty value.
func requireFields(fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return apperrors.MissingField(f.key, f.label)
		}
	}
	return nil
}
