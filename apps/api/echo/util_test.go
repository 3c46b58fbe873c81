package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/chat"
	"github.com/trezcool/darasa/core/session"
	dummylms "github.com/trezcool/darasa/services/lms/dummy"
	"github.com/trezcool/darasa/storage/sessionfile"
)

var secretKey = "secret"

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	sess     session.Session
	wantCode int
	wantData []byte
	extra    interface{}
}

type testApp struct {
	server *Server
	lms    *dummylms.Client
	store  *sessionfile.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	conf := new(core.Config)
	conf.TestMode = true
	conf.SecretKey = secretKey
	conf.SessionFile = filepath.Join(t.TempDir(), "session.json")

	lms := dummylms.NewClient()
	store := sessionfile.NewStore(conf)
	notifier := noopNotifier{}

	server := NewServer(ServerDeps{
		Conf:          conf,
		Logger:        nopLogger{},
		SessionStore:  store,
		AssignmentSvc: assignment.NewService(lms, notifier),
		ChatSvc:       chat.NewService(lms, notifier),
	})
	return &testApp{server: server, lms: lms, store: store}
}

func (app *testApp) do(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	t.Helper()

	if tt.sess.IsZero() {
		if err := app.store.Clear(); err != nil {
			t.Fatalf("clearing session: %v", err)
		}
	} else if err := app.store.Save(tt.sess); err != nil {
		t.Fatalf("saving session: %v", err)
	}

	var body bytes.Buffer
	if len(tt.body) > 0 {
		body.Write(tt.body)
	}
	req := httptest.NewRequest(tt.method, tt.path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

func teacherSession() session.Session {
	return session.Session{ID: "t1", Name: "Jane", Email: "jane@test.cm", Role: session.RoleTeacher}
}

func studentSession() session.Session {
	return session.Session{ID: "s1", Name: "Ali", Email: "ali@test.cm", Role: session.RoleStudent}
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func expiredToken(t *testing.T, sess session.Session) string {
	t.Helper()
	claims := session.NewClaims(sess, "Darasa", -time.Minute)
	token, err := session.SignToken(claims, []byte(secretKey))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type noopNotifier struct{}

func (noopNotifier) Notify(core.Notification) {}

var (
	_ core.Logger   = (*nopLogger)(nil)
	_ http.Handler  = (*Server)(nil)
	_ core.Notifier = (*noopNotifier)(nil)
)
