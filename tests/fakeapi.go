// Package testutil provides an in-memory backend speaking the dashboard REST API, for tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type Record = map[string]interface{}

var (
	errUnauthorized   = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errBadCredentials = echo.NewHTTPError(http.StatusUnauthorized, "Email yoki parol noto'g'ri")
	errNotFound       = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// Collections served with list/create/get/update/delete routes.
var collections = []string{
	"users", "groups", "lessons", "grades", "attendance", "attendances",
	"exams", "tests/results", "tests", "video-courses", "courses",
}

type claims struct {
	jwt.StandardClaims
	Role string `json:"role,omitempty"`
}

type account struct {
	hash   []byte
	userID string
}

type failure struct {
	status  int
	message string
}

// FakeAPI serves the dashboard API from memory over an httptest.Server.
type FakeAPI struct {
	Server *httptest.Server
	app    *echo.Echo
	secret []byte

	mu       sync.Mutex
	data     map[string][]Record
	accounts map[string]account
	calls    map[string]int
	failures map[string]failure
	latency  time.Duration
	gate     chan struct{}
}

func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		app:      echo.New(),
		secret:   []byte("secret"),
		data:     make(map[string][]Record),
		accounts: make(map[string]account),
		calls:    make(map[string]int),
		failures: make(map[string]failure),
	}
	f.setup()
	f.Server = httptest.NewServer(f.app)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the API base URL.
func (f *FakeAPI) URL() string { return f.Server.URL }

func (f *FakeAPI) setup() {
	f.app.HideBanner = true
	f.app.HidePort = true
	f.app.Logger.SetLevel(log.OFF)
	f.app.HTTPErrorHandler = httpErrorHandler

	f.app.Pre(middleware.RemoveTrailingSlash())
	f.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	f.app.Use(f.record)
	f.app.Use(middleware.JWTWithConfig(middleware.JWTConfig{
		Skipper:       func(ctx echo.Context) bool { return strings.HasPrefix(ctx.Path(), "/auth/") },
		SigningKey:    f.secret,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "token",
		Claims:        new(claims),
		ErrorHandler: func(err error) error {
			return &echo.HTTPError{Code: http.StatusUnauthorized, Message: "user not authenticated", Internal: err}
		},
	}))

	f.app.POST("/auth/login", f.login)
	f.app.POST("/auth/reset-password", f.resetPassword)

	for _, name := range collections {
		f.registerCollection(name)
	}

	f.app.POST("/groups/:id/students/:sid", f.addStudent)
	f.app.DELETE("/groups/:id/students/:sid", f.removeStudent)
	f.app.POST("/exams/:id/results", f.addExamResult)
	f.app.POST("/video-courses/:id/videos", f.addVideo)
	f.app.DELETE("/video-courses/:id/videos/:vid", f.deleteVideo)
	f.app.POST("/video-courses/:id/videos/:vid/quizzes", f.addQuiz)
	f.app.DELETE("/video-courses/:id/videos/:vid/quizzes/:idx", f.deleteQuiz)
	f.app.POST("/video-courses/:id/request-access", func(ctx echo.Context) error {
		return ctx.NoContent(http.StatusNoContent)
	})
	f.app.GET("/courses/:id/progress/:sid", f.getProgress)
	f.app.PUT("/courses/:id/progress/:sid", f.putProgress)
	f.app.GET("/chats/conversations/:uid", f.conversation)
	f.app.POST("/chats", f.sendMessage)
	f.app.GET("/chats/unread", f.unread)
}

// httpErrorHandler answers errors the way the backend does: {"detail": message}.
func httpErrorHandler(err error, ctx echo.Context) {
	code := http.StatusInternalServerError
	var message interface{} = http.StatusText(code)

	if herr, ok := errors.Cause(err).(*echo.HTTPError); ok {
		code, message = herr.Code, herr.Message
		if herr == middleware.ErrJWTMissing {
			code = http.StatusUnauthorized
		}
	}
	if !ctx.Response().Committed {
		if err := ctx.JSON(code, echo.Map{"detail": message}); err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}

func callKey(method, path, rawQuery string) string {
	key := method + " " + path
	if q, err := url.ParseQuery(rawQuery); err == nil && len(q) > 0 {
		key += "?" + q.Encode()
	}
	return key
}

// record counts requests and applies the configured latency, gate and failures.
func (f *FakeAPI) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		req := ctx.Request()
		f.mu.Lock()
		f.calls[callKey(req.Method, req.URL.Path, req.URL.RawQuery)]++
		latency, gate := f.latency, f.gate
		fail, failing := f.failures[req.Method+" "+req.URL.Path]
		f.mu.Unlock()

		if gate != nil && req.Method == http.MethodGet {
			select {
			case <-gate:
			case <-req.Context().Done():
				return req.Context().Err()
			}
		}
		if latency > 0 {
			time.Sleep(latency)
		}
		if failing {
			return echo.NewHTTPError(fail.status, fail.message)
		}
		return next(ctx)
	}
}

// Calls returns the number of requests received for method and target, eg. "/users?role=student".
// The query order does not matter.
func (f *FakeAPI) Calls(method, target string) int {
	path, query := target, ""
	if i := strings.IndexByte(target, '?'); i >= 0 {
		path, query = target[:i], target[i+1:]
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[callKey(method, path, query)]
}

// Fail makes every method request on path answer status with message, until ClearFailures.
func (f *FakeAPI) Fail(method, path string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = failure{status: status, message: message}
}

func (f *FakeAPI) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = make(map[string]failure)
}

func (f *FakeAPI) SetLatency(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latency = d
}

// Block holds GET requests until release is called.
func (f *FakeAPI) Block() (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gate = gate
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			if f.gate == gate {
				f.gate = nil
			}
			f.mu.Unlock()
			close(gate)
		})
	}
}

// Seed stores records in the collection, giving an id to those without one.
func (f *FakeAPI) Seed(t *testing.T, collection string, records ...interface{}) []Record {
	t.Helper()
	out := make([]Record, 0, len(records))
	for _, r := range records {
		rec, err := toRecord(r)
		if err != nil {
			t.Fatalf("Seed(%s) failed: %v", collection, err)
		}
		if id, _ := rec["id"].(string); id == "" {
			rec["id"] = uuid.NewString()
		}
		out = append(out, rec)
	}
	f.mu.Lock()
	f.data[collection] = append(f.data[collection], out...)
	f.mu.Unlock()
	return out
}

// Records returns a copy of the stored collection.
func (f *FakeAPI) Records(collection string) []Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Record, len(f.data[collection]))
	copy(out, f.data[collection])
	return out
}

// AddAccount registers login credentials for an existing user id.
func (f *FakeAPI) AddAccount(t *testing.T, email, password, userID string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("AddAccount() failed: %v", err)
	}
	f.mu.Lock()
	f.accounts[email] = account{hash: hash, userID: userID}
	f.mu.Unlock()
}

// Token signs a token for the user, eg. to seed a session without logging in.
func (f *FakeAPI) Token(userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := &claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		Role: role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(f.secret)
}

func toRecord(v interface{}) (Record, error) {
	if r, ok := v.(Record); ok {
		return copyRecord(r), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func copyRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func bindRecord(ctx echo.Context) (Record, error) {
	rec := make(Record)
	err := json.NewDecoder(ctx.Request().Body).Decode(&rec)
	if err != nil && err != io.EOF {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	return rec, nil
}

func currentUserID(ctx echo.Context) string {
	token, ok := ctx.Get("token").(*jwt.Token)
	if !ok {
		return ""
	}
	c, ok := token.Claims.(*claims)
	if !ok {
		return ""
	}
	return c.Subject
}

// find returns the index of the record with id, -1 when missing. f.mu must be held.
func (f *FakeAPI) find(collection, id string) int {
	for i, r := range f.data[collection] {
		if r["id"] == id {
			return i
		}
	}
	return -1
}

func (f *FakeAPI) registerCollection(name string) {
	base := "/" + name
	f.app.GET(base, func(ctx echo.Context) error {
		query := ctx.QueryParams()
		f.mu.Lock()
		defer f.mu.Unlock()
		out := make([]Record, 0, len(f.data[name]))
		for _, r := range f.data[name] {
			if matches(r, query) {
				out = append(out, r)
			}
		}
		return ctx.JSON(http.StatusOK, out)
	})
	f.app.POST(base, func(ctx echo.Context) error {
		rec, err := bindRecord(ctx)
		if err != nil {
			return err
		}
		rec["id"] = uuid.NewString()
		rec[createdKey(name)] = time.Now().UTC().Format(time.RFC3339)
		f.mu.Lock()
		f.data[name] = append(f.data[name], rec)
		f.mu.Unlock()
		return ctx.JSON(http.StatusCreated, rec)
	})
	f.app.GET(base+"/:id", func(ctx echo.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		i := f.find(name, ctx.Param("id"))
		if i < 0 {
			return errNotFound
		}
		return ctx.JSON(http.StatusOK, f.data[name][i])
	})
	f.app.PUT(base+"/:id", func(ctx echo.Context) error {
		patch, err := bindRecord(ctx)
		if err != nil {
			return err
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		i := f.find(name, ctx.Param("id"))
		if i < 0 {
			return errNotFound
		}
		rec := copyRecord(f.data[name][i])
		for k, v := range patch {
			if k != "id" {
				rec[k] = v
			}
		}
		f.data[name][i] = rec
		return ctx.JSON(http.StatusOK, rec)
	})
	f.app.DELETE(base+"/:id", func(ctx echo.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		i := f.find(name, ctx.Param("id"))
		if i < 0 {
			return errNotFound
		}
		f.data[name] = append(f.data[name][:i:i], f.data[name][i+1:]...)
		return ctx.NoContent(http.StatusNoContent)
	})
}

// createdKey names the creation timestamp the way each collection spells it.
func createdKey(collection string) string {
	if collection == "users" {
		return "created_at"
	}
	return "createdAt"
}

// matches reports whether every query parameter equals the record field of the same name.
func matches(r Record, query url.Values) bool {
	for k := range query {
		if stringify(r[k]) != query.Get(k) {
			return false
		}
	}
	return true
}

func stringify(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

func (f *FakeAPI) login(ctx echo.Context) error {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.Bind(&creds); err != nil {
		return err
	}

	f.mu.Lock()
	acc, ok := f.accounts[creds.Email]
	var usr Record
	if ok {
		if i := f.find("users", acc.userID); i >= 0 {
			usr = f.data["users"][i]
		}
	}
	f.mu.Unlock()

	if !ok || usr == nil {
		return errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(creds.Password)); err != nil {
		return errBadCredentials
	}
	role, _ := usr["role"].(string)
	token, err := f.Token(acc.userID, role, time.Hour)
	if err != nil {
		return errors.Wrap(err, "signing token")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"token": token, "user": usr})
}

func (f *FakeAPI) resetPassword(ctx echo.Context) error {
	var in struct {
		Email string `json:"email"`
	}
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	f.mu.Lock()
	_, ok := f.accounts[in.Email]
	f.mu.Unlock()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Foydalanuvchi topilmadi")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Parolni tiklash havolasi yuborildi"})
}

// edit applies fn to the record collection/id under the lock.
func (f *FakeAPI) edit(collection, id string, fn func(Record) error) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(collection, id)
	if i < 0 {
		return nil, errNotFound
	}
	rec := copyRecord(f.data[collection][i])
	if err := fn(rec); err != nil {
		return nil, err
	}
	f.data[collection][i] = rec
	return rec, nil
}

// update is edit answering the whole record.
func (f *FakeAPI) update(ctx echo.Context, collection, id string, fn func(Record) error) error {
	rec, err := f.edit(collection, id, fn)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func message(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusOK, echo.Map{"message": msg})
}

func list(v interface{}) []interface{} {
	l, _ := v.([]interface{})
	return l
}

func (f *FakeAPI) addStudent(ctx echo.Context) error {
	sid := ctx.Param("sid")
	return f.update(ctx, "groups", ctx.Param("id"), func(g Record) error {
		ids := list(g["student_ids"])
		for _, id := range ids {
			if id == sid {
				return echo.NewHTTPError(http.StatusBadRequest, "student already in group")
			}
		}
		g["student_ids"] = append(append([]interface{}{}, ids...), sid)
		return nil
	})
}

func (f *FakeAPI) removeStudent(ctx echo.Context) error {
	sid := ctx.Param("sid")
	return f.update(ctx, "groups", ctx.Param("id"), func(g Record) error {
		ids := list(g["student_ids"])
		kept := make([]interface{}, 0, len(ids))
		for _, id := range ids {
			if id != sid {
				kept = append(kept, id)
			}
		}
		if len(kept) == len(ids) {
			return errNotFound
		}
		g["student_ids"] = kept
		return nil
	})
}

func (f *FakeAPI) addExamResult(ctx echo.Context) error {
	result, err := bindRecord(ctx)
	if err != nil {
		return err
	}
	_, err = f.edit("exams", ctx.Param("id"), func(e Record) error {
		e["results"] = append(append([]interface{}{}, list(e["results"])...), result)
		return nil
	})
	if err != nil {
		return err
	}
	return message(ctx, "Result added successfully")
}

func findVideo(course Record, vid string) (Record, int) {
	for i, v := range list(course["videos"]) {
		if rec, ok := v.(Record); ok && rec["id"] == vid {
			return rec, i
		}
	}
	return nil, -1
}

func (f *FakeAPI) addVideo(ctx echo.Context) error {
	video, err := bindRecord(ctx)
	if err != nil {
		return err
	}
	video["id"] = uuid.NewString()
	video["quizzes"] = []interface{}{}
	_, err = f.edit("video-courses", ctx.Param("id"), func(c Record) error {
		c["videos"] = append(append([]interface{}{}, list(c["videos"])...), video)
		return nil
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, video)
}

func (f *FakeAPI) deleteVideo(ctx echo.Context) error {
	_, err := f.edit("video-courses", ctx.Param("id"), func(c Record) error {
		videos := list(c["videos"])
		_, i := findVideo(c, ctx.Param("vid"))
		if i < 0 {
			return errNotFound
		}
		c["videos"] = append(append([]interface{}{}, videos[:i]...), videos[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	return message(ctx, "Video deleted successfully")
}

func (f *FakeAPI) addQuiz(ctx echo.Context) error {
	quiz, err := bindRecord(ctx)
	if err != nil {
		return err
	}
	_, err = f.edit("video-courses", ctx.Param("id"), func(c Record) error {
		return f.editVideo(c, ctx.Param("vid"), func(v Record) error {
			v["quizzes"] = append(append([]interface{}{}, list(v["quizzes"])...), quiz)
			return nil
		})
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, quiz)
}

func (f *FakeAPI) deleteQuiz(ctx echo.Context) error {
	idx, err := strconv.Atoi(ctx.Param("idx"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid quiz index")
	}
	_, err = f.edit("video-courses", ctx.Param("id"), func(c Record) error {
		return f.editVideo(c, ctx.Param("vid"), func(v Record) error {
			quizzes := list(v["quizzes"])
			if idx < 0 || idx >= len(quizzes) {
				return errNotFound
			}
			v["quizzes"] = append(append([]interface{}{}, quizzes[:idx]...), quizzes[idx+1:]...)
			return nil
		})
	})
	if err != nil {
		return err
	}
	return message(ctx, "Quiz deleted successfully")
}

func (f *FakeAPI) editVideo(course Record, vid string, fn func(Record) error) error {
	video, i := findVideo(course, vid)
	if i < 0 {
		return errNotFound
	}
	video = copyRecord(video)
	if err := fn(video); err != nil {
		return err
	}
	videos := append([]interface{}{}, list(course["videos"])...)
	videos[i] = video
	course["videos"] = videos
	return nil
}

const progressCollection = "courses/progress"

func (f *FakeAPI) findProgress(courseID, studentID string) int {
	for i, p := range f.data[progressCollection] {
		if p["courseId"] == courseID && p["studentId"] == studentID {
			return i
		}
	}
	return -1
}

func (f *FakeAPI) getProgress(ctx echo.Context) error {
	cid, sid := ctx.Param("id"), ctx.Param("sid")
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.findProgress(cid, sid); i >= 0 {
		return ctx.JSON(http.StatusOK, f.data[progressCollection][i])
	}
	return ctx.JSON(http.StatusOK, Record{
		"id":             "",
		"courseId":       cid,
		"studentId":      sid,
		"videosWatched":  []interface{}{},
		"testsCompleted": []interface{}{},
		"progress":       0,
	})
}

func (f *FakeAPI) putProgress(ctx echo.Context) error {
	in, err := bindRecord(ctx)
	if err != nil {
		return err
	}
	cid, sid := ctx.Param("id"), ctx.Param("sid")
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.findProgress(cid, sid)
	if i < 0 {
		f.data[progressCollection] = append(f.data[progressCollection], Record{"id": uuid.NewString()})
		i = len(f.data[progressCollection]) - 1
	}
	rec := copyRecord(f.data[progressCollection][i])
	for k, v := range in {
		rec[k] = v
	}
	rec["courseId"], rec["studentId"] = cid, sid
	f.data[progressCollection][i] = rec
	return ctx.JSON(http.StatusOK, rec)
}

func (f *FakeAPI) conversation(ctx echo.Context) error {
	me, other := currentUserID(ctx), ctx.Param("uid")
	if me == "" {
		return errUnauthorized
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Record, 0)
	for _, m := range f.data["chats"] {
		s, r := m["sender_id"], m["receiver_id"]
		if (s == me && r == other) || (s == other && r == me) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return stringify(out[i]["created_at"]) < stringify(out[j]["created_at"])
	})
	return ctx.JSON(http.StatusOK, out)
}

func (f *FakeAPI) sendMessage(ctx echo.Context) error {
	me := currentUserID(ctx)
	if me == "" {
		return errUnauthorized
	}
	msg, err := bindRecord(ctx)
	if err != nil {
		return err
	}
	msg["id"] = uuid.NewString()
	msg["sender_id"] = me
	msg["is_read"] = false
	msg["created_at"] = time.Now().UTC().Format(time.RFC3339Nano)
	f.mu.Lock()
	f.data["chats"] = append(f.data["chats"], msg)
	f.mu.Unlock()
	return ctx.JSON(http.StatusCreated, msg)
}

func (f *FakeAPI) unread(ctx echo.Context) error {
	me := currentUserID(ctx)
	if me == "" {
		return errUnauthorized
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int
	for _, m := range f.data["chats"] {
		if m["receiver_id"] == me && m["is_read"] != true {
			n++
		}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"count": n})
}
