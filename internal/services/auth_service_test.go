package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/roddesu/updatedsafespace/internal/models"
	"github.com/roddesu/updatedsafespace/internal/repository"
	"github.com/roddesu/updatedsafespace/internal/utils"
)

// Mock credential store. The mutex mirrors the row-level atomicity the real
// upsert relies on.
type mockAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	nextID   int64
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[string]*models.Account)}
}

func (m *mockAccountRepo) UpsertPending(_ context.Context, email, passwordHash, otp string, otpExpiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok {
		m.nextID++
		a = &models.Account{ID: m.nextID, Email: email}
		m.accounts[email] = a
	}
	a.PasswordHash = passwordHash
	a.OTP = &otp
	exp := otpExpiresAt
	a.OTPExpiresAt = &exp
	return nil
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func (m *mockAccountRepo) MarkVerified(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok {
		return repository.ErrAccountNotFound
	}
	a.IsVerified = true
	a.OTP = nil
	a.OTPExpiresAt = nil
	return nil
}

func (m *mockAccountRepo) UpdatePassword(_ context.Context, email, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok {
		return repository.ErrAccountNotFound
	}
	a.PasswordHash = newHash
	return nil
}

func (m *mockAccountRepo) storedOTP(email string) (string, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.accounts[email]
	if a == nil || a.OTP == nil {
		return "", time.Time{}
	}
	return *a.OTP, *a.OTPExpiresAt
}

type mockMailer struct {
	mu     sync.Mutex
	sent   []string // bodies
	lastTo string
	fail   bool
}

func (m *mockMailer) Send(to []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, body)
	if len(to) > 0 {
		m.lastTo = to[0]
	}
	return nil
}

const testEmail = "1234567@ub.edu.ph"

func TestRegisterThenVerify_SucceedsExactlyOnce(t *testing.T) {
	repo := newMockAccountRepo()
	mailer := &mockMailer{}
	svc := NewAccountService(repo, mailer, 15*time.Minute)

	if err := svc.Register(context.Background(), testEmail, "Secret123"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	code, _ := repo.storedOTP(testEmail)
	if code == "" {
		t.Fatal("no OTP stored after register")
	}
	if mailer.lastTo != testEmail {
		t.Fatalf("OTP mailed to %q, want %q", mailer.lastTo, testEmail)
	}

	if err := svc.VerifyOTP(context.Background(), testEmail, code); err != nil {
		t.Fatalf("verify with issued code failed: %v", err)
	}

	user, err := svc.Login(context.Background(), testEmail, "Secret123")
	if err != nil {
		t.Fatalf("login after verify failed: %v", err)
	}
	if !user.IsVerified {
		t.Fatal("account not marked verified")
	}

	// The code has been cleared; replaying it must never validate again.
	if err := svc.VerifyOTP(context.Background(), testEmail, code); !errors.Is(err, ErrNoActiveOTP) {
		t.Fatalf("replayed code: got %v, want ErrNoActiveOTP", err)
	}
}

func TestRegister_InvalidEmail(t *testing.T) {
	svc := NewAccountService(newMockAccountRepo(), &mockMailer{}, 15*time.Minute)

	for _, email := range []string{"someone@gmail.com", "123456@ub.edu.ph", "12345678@ub.edu.ph", "1234567@ub.edu.com"} {
		if err := svc.Register(context.Background(), email, "Secret123"); !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("%s: got %v, want ErrInvalidEmail", email, err)
		}
	}
}

func TestRegister_DeliveryFailureKeepsPendingRow(t *testing.T) {
	repo := newMockAccountRepo()
	mailer := &mockMailer{fail: true}
	svc := NewAccountService(repo, mailer, 15*time.Minute)

	err := svc.Register(context.Background(), testEmail, "Secret123")
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("got %v, want ErrDeliveryFailed", err)
	}

	// The credential write is not rolled back; re-registering re-issues.
	if code, _ := repo.storedOTP(testEmail); code == "" {
		t.Fatal("pending row lost after delivery failure")
	}

	mailer.fail = false
	if err := svc.Register(context.Background(), testEmail, "Secret123"); err != nil {
		t.Fatalf("re-register failed: %v", err)
	}
}

func TestReRegisterOverwritesOTP(t *testing.T) {
	repo := newMockAccountRepo()
	svc := NewAccountService(repo, &mockMailer{}, 15*time.Minute)

	if err := svc.Register(context.Background(), testEmail, "Secret123"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	oldCode, _ := repo.storedOTP(testEmail)

	if err := svc.Register(context.Background(), testEmail, "Another456"); err != nil {
		t.Fatalf("second register failed: %v", err)
	}
	newCode, _ := repo.storedOTP(testEmail)
	if oldCode == newCode {
		t.Skip("generator produced the same code twice; cannot distinguish overwrite")
	}

	if err := svc.VerifyOTP(context.Background(), testEmail, oldCode); !errors.Is(err, ErrOTPMismatch) {
		t.Fatalf("stale code: got %v, want ErrOTPMismatch", err)
	}
	if err := svc.VerifyOTP(context.Background(), testEmail, newCode); err != nil {
		t.Fatalf("fresh code rejected: %v", err)
	}
}

func TestVerifyOTP_WrongCodeLeavesStateUntouched(t *testing.T) {
	repo := newMockAccountRepo()
	svc := NewAccountService(repo, &mockMailer{}, 15*time.Minute)

	if err := svc.Register(context.Background(), testEmail, "Secret123"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	code, _ := repo.storedOTP(testEmail)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	if err := svc.VerifyOTP(context.Background(), testEmail, wrong); !errors.Is(err, ErrOTPMismatch) {
		t.Fatalf("got %v, want ErrOTPMismatch", err)
	}
	if stored, _ := repo.storedOTP(testEmail); stored != code {
		t.Fatal("stored OTP changed by a failed verification")
	}
}

func TestVerifyOTP_Expired(t *testing.T) {
	repo := newMockAccountRepo()
	svc := NewAccountService(repo, &mockMailer{}, 15*time.Minute)

	if err := svc.Register(context.Background(), testEmail, "Secret123"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	code, _ := repo.storedOTP(testEmail)

	svc.now = func() time.Time { return time.Now().Add(16 * time.Minute) }
	if err := svc.VerifyOTP(context.Background(), testEmail, code); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("got %v, want ErrOTPExpired", err)
	}
}

func TestVerifyOTP_UnknownEmail(t *testing.T) {
	svc := NewAccountService(newMockAccountRepo(), &mockMailer{}, 15*time.Minute)

	err := svc.VerifyOTP(context.Background(), testEmail, "123456")
	if !errors.Is(err, repository.ErrAccountNotFound) {
		t.Fatalf("got %v, want ErrAccountNotFound", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newMockAccountRepo()
	svc := NewAccountService(repo, &mockMailer{}, 15*time.Minute)

	hash, _ := utils.HashPassword("Secret123")
	repo.accounts[testEmail] = &models.Account{ID: 7, Email: testEmail, PasswordHash: hash}

	user, err := svc.Login(context.Background(), testEmail, "Secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != 7 || user.Email != testEmail || user.IsVerified {
		t.Fatalf("unexpected payload: %+v", user)
	}

	if _, err := svc.Login(context.Background(), testEmail, "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("wrong password: got %v, want ErrInvalidPassword", err)
	}
	if _, err := svc.Login(context.Background(), "7654321@ub.edu.ph", "Secret123"); !errors.Is(err, repository.ErrAccountNotFound) {
		t.Fatalf("unknown email: got %v, want ErrAccountNotFound", err)
	}
}

func TestConcurrentRegisterSameEmail(t *testing.T) {
	repo := newMockAccountRepo()
	svc := NewAccountService(repo, &mockMailer{}, 15*time.Minute)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Register(context.Background(), testEmail, "Secret123")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("register %d failed: %v", i, err)
		}
	}

	// Exactly one OTP/expiry pair is observable afterwards.
	code, exp := repo.storedOTP(testEmail)
	if code == "" || exp.IsZero() {
		t.Fatal("no coherent OTP/expiry pair after concurrent registers")
	}
	if len(repo.accounts) != 1 {
		t.Fatalf("expected a single account row, got %d", len(repo.accounts))
	}
}
