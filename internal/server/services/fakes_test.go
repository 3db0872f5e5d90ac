package services

// Shared in-memory fakes for the service tests.

import (
	"context"
	"database/sql"

	"github.com/avcastro/vaultbox/internal/common"
	"github.com/avcastro/vaultbox/internal/dbx"
	"github.com/avcastro/vaultbox/internal/logging"
	"github.com/avcastro/vaultbox/internal/server/models"
	"github.com/avcastro/vaultbox/internal/server/payments"
	contactsrepo "github.com/avcastro/vaultbox/internal/server/repositories/contacts"
	filesrepo "github.com/avcastro/vaultbox/internal/server/repositories/files"
	sharesrepo "github.com/avcastro/vaultbox/internal/server/repositories/shares"
	subscriptionsrepo "github.com/avcastro/vaultbox/internal/server/repositories/subscriptions"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

// --- files repository ---

type fakeFilesRepo struct {
	byID map[string]*models.File

	createErr error
	created   []*models.File

	listOut []*models.File
	listErr error

	deleted   []string
	deleteErr error

	starOut bool
	starErr error

	privacyCalls map[string]bool

	totalOut int64
	histOut  []*models.ExtensionCount
}

func newFakeFilesRepo() *fakeFilesRepo {
	return &fakeFilesRepo{byID: map[string]*models.File{}, privacyCalls: map[string]bool{}}
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.File) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, file)
	f.byID[file.ID] = file
	return nil
}

func (f *fakeFilesRepo) GetByID(ctx context.Context, id string) (*models.File, error) {
	file, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return file, nil
}

func (f *fakeFilesRepo) ListAccessible(ctx context.Context, principal models.PrincipalID) ([]*models.File, error) {
	return f.listOut, f.listErr
}

func (f *fakeFilesRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

func (f *fakeFilesRepo) ToggleStar(ctx context.Context, id string) (bool, error) {
	return f.starOut, f.starErr
}

func (f *fakeFilesRepo) SetPrivacy(ctx context.Context, id string, private bool) error {
	f.privacyCalls[id] = private
	return nil
}

func (f *fakeFilesRepo) TotalSize(ctx context.Context, owner models.PrincipalID) (int64, error) {
	return f.totalOut, nil
}

func (f *fakeFilesRepo) ExtensionHistogram(ctx context.Context, owner models.PrincipalID, limit int) ([]*models.ExtensionCount, error) {
	return f.histOut, nil
}

// --- shares repository ---

type fakeSharesRepo struct {
	grants []*models.FileShare

	createErr error
	deleteErr error
	listErr   error

	deletedGrantees []models.PrincipalID
}

func (f *fakeSharesRepo) Create(ctx context.Context, share *models.FileShare) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.grants = append(f.grants, share)
	return nil
}

func (f *fakeSharesRepo) Delete(ctx context.Context, fileID string, grantee models.PrincipalID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedGrantees = append(f.deletedGrantees, grantee)
	return nil
}

func (f *fakeSharesRepo) ListByFile(ctx context.Context, fileID string) ([]*models.FileShare, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.FileShare
	for _, g := range f.grants {
		if g.FileID == fileID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeSharesRepo) ListByGrantee(ctx context.Context, grantee models.PrincipalID) ([]*models.FileShare, error) {
	return nil, nil
}

// --- subscriptions repository ---

type fakeSubscriptionsRepo struct {
	plans  map[int64]*models.SubscriptionPlan
	byUser map[models.PrincipalID]*models.Subscription

	nextPlanID int64
	nextSubID  int64

	createPlanErr error
	createErr     error
	setPlanErr    error

	listAllOut []*models.Subscription
}

func newFakeSubscriptionsRepo() *fakeSubscriptionsRepo {
	return &fakeSubscriptionsRepo{
		plans:      map[int64]*models.SubscriptionPlan{},
		byUser:     map[models.PrincipalID]*models.Subscription{},
		nextPlanID: 1,
		nextSubID:  1,
	}
}

func (f *fakeSubscriptionsRepo) addPlan(p *models.SubscriptionPlan) *models.SubscriptionPlan {
	p.ID = f.nextPlanID
	f.nextPlanID++
	f.plans[p.ID] = p
	return p
}

func (f *fakeSubscriptionsRepo) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	if f.createPlanErr != nil {
		return f.createPlanErr
	}
	f.addPlan(plan)
	return nil
}

func (f *fakeSubscriptionsRepo) GetPlan(ctx context.Context, id int64) (*models.SubscriptionPlan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return p, nil
}

func (f *fakeSubscriptionsRepo) GetPlanByTier(ctx context.Context, tier string) (*models.SubscriptionPlan, error) {
	for _, p := range f.plans {
		if p.Tier == tier {
			return p, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeSubscriptionsRepo) ListActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	var out []*models.SubscriptionPlan
	for _, p := range f.plans {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionsRepo) GetByUser(ctx context.Context, user models.PrincipalID) (*models.Subscription, error) {
	sub, ok := f.byUser[user]
	if !ok {
		return nil, common.ErrNotFound
	}
	if sub.Plan == nil {
		sub.Plan = f.plans[sub.PlanID]
	}
	return sub, nil
}

func (f *fakeSubscriptionsRepo) Create(ctx context.Context, sub *models.Subscription) error {
	if f.createErr != nil {
		return f.createErr
	}
	sub.ID = f.nextSubID
	f.nextSubID++
	if sub.Status == "" {
		sub.Status = models.SubscriptionActive
	}
	f.byUser[sub.UserID] = sub
	return nil
}

func (f *fakeSubscriptionsRepo) SetPlan(ctx context.Context, user models.PrincipalID, planID int64, status string) error {
	if f.setPlanErr != nil {
		return f.setPlanErr
	}
	sub, ok := f.byUser[user]
	if !ok {
		return common.ErrNotFound
	}
	sub.PlanID = planID
	sub.Status = status
	sub.Plan = f.plans[planID]
	return nil
}

func (f *fakeSubscriptionsRepo) ListAll(ctx context.Context) ([]*models.Subscription, error) {
	return f.listAllOut, nil
}

// --- contacts repository ---

type fakeContactsRepo struct {
	created []*models.Contact
	listOut []*models.Contact

	createErr error
	updateErr error
}

func (f *fakeContactsRepo) Create(ctx context.Context, c *models.Contact) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = int64(len(f.created) + 1)
	c.Status = models.ContactStatusPending
	f.created = append(f.created, c)
	return nil
}

func (f *fakeContactsRepo) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	for _, c := range f.created {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeContactsRepo) List(ctx context.Context) ([]*models.Contact, error) {
	return f.listOut, nil
}

func (f *fakeContactsRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return f.updateErr
}

func (f *fakeContactsRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

// --- repository manager ---

type fakeRepoManager struct {
	files         *fakeFilesRepo
	shares        *fakeSharesRepo
	subscriptions *fakeSubscriptionsRepo
	contacts      *fakeContactsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Files(db dbx.DBTX) filesrepo.Repository      { return m.files }
func (m *fakeRepoManager) Shares(db dbx.DBTX) sharesrepo.Repository    { return m.shares }
func (m *fakeRepoManager) Subscriptions(db dbx.DBTX) subscriptionsrepo.Repository {
	return m.subscriptions
}
func (m *fakeRepoManager) Contacts(db dbx.DBTX) contactsrepo.Repository { return m.contacts }

// --- object store ---

type fakeStore struct {
	objects map[string][]byte

	uploadErr error
	failName  string // uploads of this name fail with uploadErr
	getErr    error
	deleteErr error

	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Upload(ctx context.Context, name, contentType string, body []byte) (string, error) {
	if f.uploadErr != nil && (f.failName == "" || f.failName == name) {
		return "", f.uploadErr
	}
	f.objects[name] = body
	return name, nil
}

func (f *fakeStore) Download(ctx context.Context, name string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	body, ok := f.objects[name]
	if !ok {
		return nil, common.ErrNotFound
	}
	return body, nil
}

func (f *fakeStore) PublicURL(name string) string { return "http://store/uploads/" + name }

func (f *fakeStore) Delete(ctx context.Context, names ...string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for _, n := range names {
		f.deleted = append(f.deleted, n)
		delete(f.objects, n)
	}
	return nil
}

// --- identity provider ---

type fakeProvider struct {
	principals []*models.Principal

	listErr     error
	passwordErr error
	metadataErr error
	deleteErr   error

	passwords map[models.PrincipalID]string
	metadata  map[models.PrincipalID]map[string]any
	deleted   []models.PrincipalID
}

func newFakeProvider(principals ...*models.Principal) *fakeProvider {
	return &fakeProvider{
		principals: principals,
		passwords:  map[models.PrincipalID]string{},
		metadata:   map[models.PrincipalID]map[string]any{},
	}
}

func (f *fakeProvider) ListPrincipals(ctx context.Context) ([]*models.Principal, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.principals, nil
}

func (f *fakeProvider) GetPrincipal(ctx context.Context, id models.PrincipalID) (*models.Principal, error) {
	for _, p := range f.principals {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeProvider) FindByEmail(ctx context.Context, email string) (*models.Principal, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	for _, p := range f.principals {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, common.ErrGranteeNotFound
}

func (f *fakeProvider) UpdatePassword(ctx context.Context, id models.PrincipalID, password string) error {
	if f.passwordErr != nil {
		return f.passwordErr
	}
	f.passwords[id] = password
	return nil
}

func (f *fakeProvider) UpdateMetadata(ctx context.Context, id models.PrincipalID, metadata map[string]any) error {
	if f.metadataErr != nil {
		return f.metadataErr
	}
	f.metadata[id] = metadata
	return nil
}

func (f *fakeProvider) DeletePrincipal(ctx context.Context, id models.PrincipalID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// --- payment gateway ---

type fakeGateway struct {
	order     *payments.Order
	createErr error

	capture    *payments.Capture
	captureErr error

	capturedOrders []string
}

func (f *fakeGateway) CreateOrder(ctx context.Context, value, currency, description string) (*payments.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.order, nil
}

func (f *fakeGateway) CaptureOrder(ctx context.Context, orderID string) (*payments.Capture, error) {
	f.capturedOrders = append(f.capturedOrders, orderID)
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	return f.capture, nil
}
