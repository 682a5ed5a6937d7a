package tracker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"inkwell/internal/mail"
	"inkwell/pkg/types"

	"github.com/sirupsen/logrus"
)

type fakeDocumentStore struct {
	docs       map[string]types.Document
	byProgram  map[string][]string
	countCalls int
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{
		docs:      make(map[string]types.Document),
		byProgram: make(map[string][]string),
	}
}

func (f *fakeDocumentStore) add(doc types.Document) {
	f.docs[doc.ID] = doc
	if doc.ProgramID != nil {
		f.byProgram[*doc.ProgramID] = append(f.byProgram[*doc.ProgramID], doc.ID)
	}
}

func (f *fakeDocumentStore) Document(_ context.Context, documentID string) (*types.Document, error) {
	doc, ok := f.docs[documentID]
	if !ok {
		return nil, types.ErrDocumentNotFound
	}
	return &doc, nil
}

func (f *fakeDocumentStore) DocumentsByIDs(_ context.Context, documentIDs []string) ([]types.Document, error) {
	out := make([]types.Document, 0, len(documentIDs))
	for _, id := range documentIDs {
		if doc, ok := f.docs[id]; ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (f *fakeDocumentStore) DocumentIDsByProgram(_ context.Context, programID string) ([]string, error) {
	return f.byProgram[programID], nil
}

func (f *fakeDocumentStore) Count(_ context.Context) (int, error) {
	f.countCalls++
	return len(f.docs), nil
}

type fakeInstanceStore struct {
	instances map[string]types.DocumentInstance
	order     []string
	updateErr error
}

func newFakeInstanceStore() *fakeInstanceStore {
	return &fakeInstanceStore{instances: make(map[string]types.DocumentInstance)}
}

func (f *fakeInstanceStore) put(instance types.DocumentInstance) {
	if _, seen := f.instances[instance.ID]; !seen {
		f.order = append(f.order, instance.ID)
	}
	f.instances[instance.ID] = instance
}

func (f *fakeInstanceStore) Instance(_ context.Context, instanceID string) (*types.DocumentInstance, error) {
	instance, ok := f.instances[instanceID]
	if !ok {
		return nil, types.ErrInstanceNotFound
	}
	return &instance, nil
}

func (f *fakeInstanceStore) InstancesByDocument(_ context.Context, documentID string) ([]types.DocumentInstance, error) {
	out := make([]types.DocumentInstance, 0)
	for _, id := range f.order {
		if instance := f.instances[id]; instance.DocumentID == documentID {
			out = append(out, instance)
		}
	}
	return out, nil
}

func (f *fakeInstanceStore) Create(_ context.Context, instance *types.DocumentInstance) error {
	now := time.Now()
	instance.CreatedAt = now
	instance.UpdatedAt = now
	f.put(*instance)
	return nil
}

func (f *fakeInstanceStore) Update(_ context.Context, instance *types.DocumentInstance) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	instance.UpdatedAt = time.Now()
	f.put(*instance)
	return nil
}

func (f *fakeInstanceStore) All(_ context.Context) ([]types.DocumentInstance, error) {
	out := make([]types.DocumentInstance, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.instances[id])
	}
	return out, nil
}

func (f *fakeInstanceStore) CountByStatus(_ context.Context, documentID string) (map[types.InstanceStatus]int, error) {
	counts := make(map[types.InstanceStatus]int)
	for _, instance := range f.instances {
		if instance.DocumentID == documentID {
			counts[instance.Status]++
		}
	}
	return counts, nil
}

func (f *fakeInstanceStore) SentSince(_ context.Context, since time.Time) ([]types.DocumentInstance, error) {
	out := make([]types.DocumentInstance, 0)
	for _, id := range f.order {
		instance := f.instances[id]
		if instance.SentAt != nil && !instance.SentAt.Before(since) {
			out = append(out, instance)
		}
	}
	return out, nil
}

func (f *fakeInstanceStore) SearchByRecipient(_ context.Context, term string) ([]types.DocumentInstance, error) {
	needle := strings.ToLower(term)
	out := make([]types.DocumentInstance, 0)
	for _, id := range f.order {
		instance := f.instances[id]
		if strings.Contains(strings.ToLower(instance.RecipientName), needle) ||
			strings.Contains(strings.ToLower(instance.RecipientEmail), needle) {
			out = append(out, instance)
		}
	}
	return out, nil
}

func (f *fakeInstanceStore) ExistsForRecipient(_ context.Context, documentID, recipientEmail string) (bool, error) {
	for _, instance := range f.instances {
		if instance.DocumentID == documentID && strings.EqualFold(instance.RecipientEmail, recipientEmail) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInstanceStore) OverdueCandidates(_ context.Context, now time.Time) ([]types.DocumentInstance, error) {
	out := make([]types.DocumentInstance, 0)
	for _, id := range f.order {
		instance := f.instances[id]
		if instance.Status.Terminal() || instance.Status == types.InstanceStatusExpired {
			continue
		}
		if instance.ExpirationDate.Before(now) {
			out = append(out, instance)
		}
	}
	return out, nil
}

type fakeActivityStore struct {
	entries []types.ActivityEntry
}

func (f *fakeActivityStore) Append(_ context.Context, entry *types.ActivityEntry) error {
	entry.ID = int64(len(f.entries) + 1)
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityStore) ByInstance(_ context.Context, instanceID string) ([]types.ActivityEntry, error) {
	out := make([]types.ActivityEntry, 0)
	for _, entry := range f.entries {
		if entry.InstanceID == instanceID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeActivityStore) actions(instanceID string) []string {
	out := make([]string, 0)
	for _, entry := range f.entries {
		if entry.InstanceID == instanceID {
			out = append(out, entry.Action)
		}
	}
	return out
}

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type testEnv struct {
	svc       *Service
	docs      *fakeDocumentStore
	instances *fakeInstanceStore
	activity  *fakeActivityStore
	mailer    *fakeMailer
}

func newTestEnv() *testEnv {
	docs := newFakeDocumentStore()
	instances := newFakeInstanceStore()
	activity := &fakeActivityStore{}
	mailer := &fakeMailer{}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	config := &types.Config{
		SigningBaseURL:        "https://sign.example.com",
		DefaultExpirationDays: 30,
		MailFromName:          "Inkwell",
		MailFromAddress:       "no-reply@inkwell.local",
	}

	return &testEnv{
		svc:       New(logger, config, docs, instances, activity, mailer),
		docs:      docs,
		instances: instances,
		activity:  activity,
		mailer:    mailer,
	}
}

func (e *testEnv) addDocument(id, title string) {
	e.docs.add(types.Document{ID: id, Title: title, OwnerID: "instr_1", Status: types.DocumentStatusActive})
}

func (e *testEnv) createInstance(t *testing.T, documentID, email string) string {
	t.Helper()
	instanceID, err := e.svc.CreateInstance(context.Background(), CreateInstanceInput{
		DocumentID:     documentID,
		RecipientID:    "stu_1",
		RecipientType:  "guardian",
		RecipientName:  "Tonya Williams",
		RecipientEmail: email,
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}
	return instanceID
}

func TestCreateInstanceInitialState(t *testing.T) {
	env := newTestEnv()
	instanceID := env.createInstance(t, "doc_1", "a@b.com")

	instance := env.instances.instances[instanceID]
	if instance.Status != types.InstanceStatusReady {
		t.Fatalf("expected ready status, got %q", instance.Status)
	}
	if instance.AccessToken == "" || instance.ID == "" {
		t.Fatalf("expected generated id and access token")
	}
	if instance.SentAt != nil || instance.ViewedAt != nil || instance.SignedAt != nil || instance.DeclinedAt != nil {
		t.Fatalf("expected all status timestamps to start null")
	}
	if instance.ReminderCount != 0 {
		t.Fatalf("expected zero reminder count")
	}

	wantExpiry := time.Now().AddDate(0, 0, 30)
	if diff := instance.ExpirationDate.Sub(wantExpiry); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("expected ~30 day expiration, got %v", instance.ExpirationDate)
	}

	if got := env.activity.actions(instanceID); len(got) != 1 || got[0] != types.ActivityCreated {
		t.Fatalf("expected single created activity entry, got %v", got)
	}
}

func TestCreateInstanceCustomExpiration(t *testing.T) {
	env := newTestEnv()

	instanceID, err := env.svc.CreateInstance(context.Background(), CreateInstanceInput{
		DocumentID:     "doc_1",
		RecipientEmail: "a@b.com",
		ExpirationDays: 7,
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}

	instance := env.instances.instances[instanceID]
	wantExpiry := time.Now().AddDate(0, 0, 7)
	if diff := instance.ExpirationDate.Sub(wantExpiry); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("expected ~7 day expiration, got %v", instance.ExpirationDate)
	}
}

func TestSendDocument(t *testing.T) {
	env := newTestEnv()
	env.addDocument("doc_1", "Waiver")
	instanceID := env.createInstance(t, "doc_1", "a@b.com")

	if err := env.svc.SendDocument(context.Background(), instanceID, SendOptions{}); err != nil {
		t.Fatalf("send: %v", err)
	}

	instance := env.instances.instances[instanceID]
	if instance.Status != types.InstanceStatusSent {
		t.Fatalf("expected sent status, got %q", instance.Status)
	}
	if instance.SentAt == nil {
		t.Fatalf("expected sent_at to be set")
	}

	if got := env.activity.actions(instanceID); len(got) != 2 || got[1] != types.ActivitySent {
		t.Fatalf("expected created+sent activity, got %v", got)
	}

	if len(env.mailer.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(env.mailer.sent))
	}
	msg := env.mailer.sent[0]
	if msg.ToAddress != "a@b.com" {
		t.Fatalf("expected mail to recipient, got %q", msg.ToAddress)
	}
	wantLink := "https://sign.example.com/sign/" + instance.ID + "/" + instance.AccessToken
	if !strings.Contains(msg.Body, wantLink) {
		t.Fatalf("expected body to contain signing link %q", wantLink)
	}
	if !strings.Contains(msg.Subject, "Waiver") {
		t.Fatalf("expected subject to mention document title, got %q", msg.Subject)
	}
}

func TestSendDocumentMissingDocument(t *testing.T) {
	env := newTestEnv()
	instanceID := env.createInstance(t, "doc_missing", "a@b.com")

	err := env.svc.SendDocument(context.Background(), instanceID, SendOptions{})
	if !errors.Is(err, types.ErrDocumentNotFound) {
		t.Fatalf("expected document not found, got %v", err)
	}

	instance := env.instances.instances[instanceID]
	if instance.Status != types.InstanceStatusReady {
		t.Fatalf("expected status unchanged, got %q", instance.Status)
	}
}

func TestSendDocumentMissingInstance(t *testing.T) {
	env := newTestEnv()

	err := env.svc.SendDocument(context.Background(), "nope", SendOptions{})
	if !errors.Is(err, types.ErrInstanceNotFound) {
		t.Fatalf("expected instance not found, got %v", err)
	}
}

func TestSendDocumentMailFailureIsSwallowed(t *testing.T) {
	env := newTestEnv()
	env.addDocument("doc_1", "Waiver")
	instanceID := env.createInstance(t, "doc_1", "a@b.com")
	env.mailer.err = errors.New("smtp down")

	// The status write is the unit of success; delivery failure is logged
	// telemetry only.
	if err := env.svc.SendDocument(context.Background(), instanceID, SendOptions{}); err != nil {
		t.Fatalf("expected send to succeed despite mail failure, got %v", err)
	}

	instance := env.instances.instances[instanceID]
	if instance.Status != types.InstanceStatusSent {
		t.Fatalf("expected sent status, got %q", instance.Status)
	}
}

func TestSendDocumentCustomSubjectAndMessage(t *testing.T) {
	env := newTestEnv()
	env.addDocument("doc_1", "Waiver")
	instanceID := env.createInstance(t, "doc_1", "a@b.com")

	err := env.svc.SendDocument(context.Background(), instanceID, SendOptions{
		BaseURL:      "https://alt.example.com",
		EmailSubject: "Please sign the fall waiver",
		EmailMessage: "We need this before the first meeting.",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	msg := env.mailer.sent[0]
	if msg.Subject != "Please sign the fall waiver" {
		t.Fatalf("expected subject override, got %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "We need this before the first meeting.") {
		t.Fatalf("expected message override in body")
	}
	if !strings.Contains(msg.Body, "https://alt.example.com/sign/") {
		t.Fatalf("expected alternate base url in body")
	}
}

func TestSendReminder(t *testing.T) {
	env := newTestEnv()
	env.addDocument("doc_1", "Waiver")
	instanceID := env.createInstance(t, "doc_1", "a@b.com")

	if err := env.svc.SendDocument(context.Background(), instanceID, SendOptions{}); err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := env.svc.SendReminder(context.Background(), instanceID, ""); err != nil {
		t.Fatalf("remind: %v", err)
	}

	instance := env.instances.instances[instanceID]
	if instance.ReminderCount != 1 {
		t.Fatalf("expected reminder count 1, got %d", instance.ReminderCount)
	}
	if instance.LastReminderSent == nil {
		t.Fatalf("expected last_reminder_sent to be set")
	}

	entries, _ := env.activity.ByInstance(context.Background(), instanceID)
	last := entries[len(entries)-1]
	if last.Action != types.ActivityReminderSent {
		t.Fatalf("expected reminder_sent activity, got %q", last.Action)
	}
	if last.Details["reminderCount"] != 1 {
		t.Fatalf("expected reminder count detail, got %v", last.Details)
	}

	if len(env.mailer.sent) != 2 {
		t.Fatalf("expected invite + reminder mail, got %d", len(env.mailer.sent))
	}
}

func TestSendReminderAllowedBeforeSend(t *testing.T) {
	env := newTestEnv()
	env.addDocument("doc_1", "Waiver")
	instanceID := env.createInstance(t, "doc_1", "a@b.com")

	// Reminders do not require the instance to have been sent first.
	if err := env.svc.SendReminder(context.Background(), instanceID, ""); err != nil {
		t.Fatalf("remind: %v", err)
	}
}

func TestSendReminderRefusedForTerminalStatus(t *testing.T) {
	for _, status := range []types.InstanceStatus{types.InstanceStatusSigned, types.InstanceStatusDeclined} {
		t.Run(string(status), func(t *testing.T) {
			env := newTestEnv()
			env.addDocument("doc_1", "Waiver")
			instanceID := env.createInstance(t, "doc_1", "a@b.com")

			instance := env.instances.instances[instanceID]
			instance.Status = status
			env.instances.put(instance)

			err := env.svc.SendReminder(context.Background(), instanceID, "")
			if !errors.Is(err, types.ErrInstanceTerminal) {
				t.Fatalf("expected terminal refusal, got %v", err)
			}

			after := env.instances.instances[instanceID]
			if after.ReminderCount != 0 {
				t.Fatalf("expected reminder count unchanged, got %d", after.ReminderCount)
			}
			if len(env.mailer.sent) != 0 {
				t.Fatalf("expected no reminder mail")
			}
		})
	}
}

func TestUpdateStatusViewed(t *testing.T) {
	env := newTestEnv()
	env.addDocument("doc_1", "Waiver")
	instanceID := env.createInstance(t, "doc_1", "a@b.com")

	err := env.svc.UpdateStatus(context.Background(), instanceID, types.StatusUpdate{
		Status:    types.InstanceStatusViewed,
		UserAgent: "test-agent",
		IPAddress: "203.0.113.9",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	instance := env.instances.instances[instanceID]
	if instance.Status != types.InstanceStatusViewed {
		t.Fatalf("expected viewed status, got %q", instance.Status)
	}
	if instance.ViewedAt == nil {
		t.Fatalf("expected viewed_at to be set")
	}
	if instance.SignedAt != nil {
		t.Fatalf("expected signed_at untouched")
	}

	entries, _ := env.activity.ByInstance(context.Background(), instanceID)
	last := entries[len(entries)-1]
	if last.Action != types.ActivityViewed {
		t.Fatalf("expected viewed activity, got %q", last.Action)
	}
	if last.Details["userAgent"] != "test-agent" {
		t.Fatalf("expected user agent in details, got %v", last.Details)
	}
}

func TestUpdateStatusSigned(t *testing.T) {
	env := newTestEnv()
	env.addDocument("doc_1", "Waiver")
	instanceID := env.createInstance(t, "doc_1", "a@b.com")

	before, _ := env.activity.ByInstance(context.Background(), instanceID)

	err := env.svc.UpdateStatus(context.Background(), instanceID, types.StatusUpdate{
		Status:    types.InstanceStatusSigned,
		UserAgent: "test-agent",
		IPAddress: "203.0.113.9",
		FormData:  map[string]any{"emergency_contact": "555-0100"},
		SignatureData: &types.SignatureData{
			SignatureType:  "typed",
			SignatureImage: "data:image/png;base64,...",
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	instance := env.instances.instances[instanceID]
	if instance.Status != types.InstanceStatusSigned {
		t.Fatalf("expected signed status, got %q", instance.Status)
	}
	if instance.SignedAt == nil {
		t.Fatalf("expected signed_at to be set")
	}

	sig := instance.SignatureData
	if sig == nil {
		t.Fatalf("expected signature data")
	}
	if sig.SignatureType != "typed" || sig.SignatureImage == "" {
		t.Fatalf("expected signature payload preserved, got %+v", sig)
	}
	if sig.IPAddress != "203.0.113.9" || sig.UserAgent != "test-agent" {
		t.Fatalf("expected signature normalized with request context, got %+v", sig)
	}
	if sig.SignedAt.IsZero() {
		t.Fatalf("expected signature timestamp")
	}

	if instance.FormData["emergency_contact"] != "555-0100" {
		t.Fatalf("expected form data merged, got %v", instance.FormData)
	}

	after, _ := env.activity.ByInstance(context.Background(), instanceID)
	if len(after) != len(before)+1 {
		t.Fatalf("expected exactly one new activity entry, got %d", len(after)-len(before))
	}
	if after[len(after)-1].Action != types.ActivitySigned {
		t.Fatalf("expected signed activity, got %q", after[len(after)-1].Action)
	}
}

func TestUpdateStatusDeclined(t *testing.T) {
	env := newTestEnv()
	env.addDocument("doc_1", "Waiver")
	instanceID := env.createInstance(t, "doc_1", "a@b.com")

	err := env.svc.UpdateStatus(context.Background(), instanceID, types.StatusUpdate{
		Status:         types.InstanceStatusDeclined,
		DeclinedReason: "wrong guardian",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	instance := env.instances.instances[instanceID]
	if instance.Status != types.InstanceStatusDeclined {
		t.Fatalf("expected declined status, got %q", instance.Status)
	}
	if instance.DeclinedAt == nil {
		t.Fatalf("expected declined_at to be set")
	}
	if instance.DeclinedReason == nil || *instance.DeclinedReason != "wrong guardian" {
		t.Fatalf("expected declined reason recorded")
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv()
	instanceID := env.createInstance(t, "doc_1", "a@b.com")

	for _, status := range []types.InstanceStatus{types.InstanceStatusReady, types.InstanceStatusSent, "bogus"} {
		err := env.svc.UpdateStatus(context.Background(), instanceID, types.StatusUpdate{Status: status})
		if !errors.Is(err, types.ErrInvalidStatus) {
			t.Fatalf("expected invalid status for %q, got %v", status, err)
		}
	}
}

func TestInstanceByAccess(t *testing.T) {
	env := newTestEnv()
	instanceID := env.createInstance(t, "doc_1", "a@b.com")
	token := env.instances.instances[instanceID].AccessToken

	instance, err := env.svc.InstanceByAccess(context.Background(), instanceID, token)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if instance.ID != instanceID {
		t.Fatalf("expected matching instance")
	}

	// A wrong token looks exactly like a missing instance.
	if _, err := env.svc.InstanceByAccess(context.Background(), instanceID, "wrong"); !errors.Is(err, types.ErrInstanceNotFound) {
		t.Fatalf("expected not found for bad token, got %v", err)
	}
}

func TestInstanceExistsAdvisory(t *testing.T) {
	env := newTestEnv()
	env.createInstance(t, "doc_1", "a@b.com")

	exists, err := env.svc.InstanceExists(context.Background(), "doc_1", "A@B.COM")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !exists {
		t.Fatalf("expected advisory check to match case-insensitively")
	}

	// Creation itself never blocks on the check.
	dup := env.createInstance(t, "doc_1", "a@b.com")
	if dup == "" {
		t.Fatalf("expected duplicate creation to succeed")
	}
}

func TestSweepExpired(t *testing.T) {
	env := newTestEnv()
	env.addDocument("doc_1", "Waiver")

	overdueID := env.createInstance(t, "doc_1", "late@b.com")
	overdue := env.instances.instances[overdueID]
	overdue.Status = types.InstanceStatusSent
	overdue.ExpirationDate = time.Now().AddDate(0, 0, -1)
	env.instances.put(overdue)

	signedID := env.createInstance(t, "doc_1", "done@b.com")
	signed := env.instances.instances[signedID]
	signed.Status = types.InstanceStatusSigned
	signed.ExpirationDate = time.Now().AddDate(0, 0, -1)
	env.instances.put(signed)

	freshID := env.createInstance(t, "doc_1", "fresh@b.com")

	swept, err := env.svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if swept != 1 {
		t.Fatalf("expected one instance swept, got %d", swept)
	}

	if got := env.instances.instances[overdueID].Status; got != types.InstanceStatusExpired {
		t.Fatalf("expected overdue instance expired, got %q", got)
	}
	if got := env.instances.instances[signedID].Status; got != types.InstanceStatusSigned {
		t.Fatalf("expected signed instance untouched, got %q", got)
	}
	if got := env.instances.instances[freshID].Status; got != types.InstanceStatusReady {
		t.Fatalf("expected fresh instance untouched, got %q", got)
	}

	entries, _ := env.activity.ByInstance(context.Background(), overdueID)
	if entries[len(entries)-1].Action != types.ActivityExpired {
		t.Fatalf("expected expired activity entry")
	}
}

func TestEndToEndLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.docs.add(types.Document{ID: "doc_waiver", Title: "Waiver", OwnerID: "instr_1", Status: types.DocumentStatusActive})
	instanceID := env.createInstance(t, "doc_waiver", "a@b.com")

	if err := env.svc.SendDocument(ctx, instanceID, SendOptions{}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := env.instances.instances[instanceID].Status; got != types.InstanceStatusSent {
		t.Fatalf("expected sent, got %q", got)
	}
	if len(env.mailer.sent) != 1 {
		t.Fatalf("expected mailer invoked once")
	}

	if err := env.svc.UpdateStatus(ctx, instanceID, types.StatusUpdate{Status: types.InstanceStatusViewed}); err != nil {
		t.Fatalf("view: %v", err)
	}
	if got := env.instances.instances[instanceID].Status; got != types.InstanceStatusViewed {
		t.Fatalf("expected viewed, got %q", got)
	}

	err := env.svc.UpdateStatus(ctx, instanceID, types.StatusUpdate{
		Status:        types.InstanceStatusSigned,
		SignatureData: &types.SignatureData{SignatureType: "typed", SignatureImage: "..."},
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if got := env.instances.instances[instanceID].Status; got != types.InstanceStatusSigned {
		t.Fatalf("expected signed, got %q", got)
	}

	if err := env.svc.SendReminder(ctx, instanceID, ""); !errors.Is(err, types.ErrInstanceTerminal) {
		t.Fatalf("expected reminder refused after signing, got %v", err)
	}

	if got := env.activity.actions(instanceID); len(got) != 4 {
		t.Fatalf("expected created/sent/viewed/signed trail, got %v", got)
	}
}
