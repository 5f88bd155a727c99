package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-cms/inkwell/internal/testutil"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	return NewHandler(testutil.TestDB(t), testutil.TestLogger()).Routes()
}

// doJSON performs a request with an optional JSON body and decodes the
// response into out when it is non-nil.
func doJSON(t *testing.T, r chi.Router, method, path string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

// envelope mirrors Response with a raw data payload for re-decoding.
type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta *Meta           `json:"meta"`
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding envelope %q: %v", rec.Body.String(), err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decoding data %q: %v", env.Data, err)
	}
}

func createUserViaAPI(t *testing.T, r chi.Router, email, username string) UserResponse {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/users", CreateUserRequest{
		Email: email, Username: username, Password: "pw123456",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating user: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var user UserResponse
	decodeData(t, rec, &user)
	return user
}

func createPostViaAPI(t *testing.T, r chi.Router, authorID int64, slug string) PostResponse {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/posts", CreatePostRequest{
		Title: "Post " + slug, Slug: slug, Body: "# Heading\n\nbody", AuthorID: authorID,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating post: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var post PostResponse
	decodeData(t, rec, &post)
	return post
}

func TestStatus(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/status", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var status StatusResponse
	decodeData(t, rec, &status)
	if status.Status != "ok" {
		t.Errorf("Status = %q, want ok", status.Status)
	}
}

func TestCreateUserEndpoint(t *testing.T) {
	r := newTestRouter(t)

	user := createUserViaAPI(t, r, "api@example.com", "apiuser")
	if user.ID == 0 {
		t.Error("ID should be assigned")
	}

	// Duplicate email maps to 409.
	rec := doJSON(t, r, http.MethodPost, "/users", CreateUserRequest{
		Email: "api@example.com", Username: "other", Password: "pw123456",
	}, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate email: status = %d, want 409", rec.Code)
	}

	// Missing password maps to 422.
	rec = doJSON(t, r, http.MethodPost, "/users", CreateUserRequest{
		Email: "x@example.com", Username: "x",
	}, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("missing password: status = %d, want 422", rec.Code)
	}
}

func TestGetUserEndpoint(t *testing.T) {
	r := newTestRouter(t)

	user := createUserViaAPI(t, r, "get@example.com", "getter")

	rec := doJSON(t, r, http.MethodGet, fmt.Sprintf("/users/%d", user.ID), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var found UserResponse
	decodeData(t, rec, &found)
	if found.Email != "get@example.com" {
		t.Errorf("Email = %q", found.Email)
	}

	rec = doJSON(t, r, http.MethodGet, "/users/9999", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing user: status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/users/abc", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want 400", rec.Code)
	}
}

func TestPostLifecycleEndpoints(t *testing.T) {
	r := newTestRouter(t)

	user := createUserViaAPI(t, r, "author@example.com", "author")
	post := createPostViaAPI(t, r, user.ID, "lifecycle")

	// GET renders the body to sanitized HTML.
	rec := doJSON(t, r, http.MethodGet, fmt.Sprintf("/posts/%d", post.ID), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var fetched PostResponse
	decodeData(t, rec, &fetched)
	if fetched.BodyHTML == "" {
		t.Error("GET should include rendered body_html")
	}

	// Publish via PUT stamps published_at.
	status := "published"
	rec = doJSON(t, r, http.MethodPut, fmt.Sprintf("/posts/%d", post.ID),
		UpdatePostRequest{Status: &status}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var published PostResponse
	decodeData(t, rec, &published)
	if published.PublishedAt == nil {
		t.Error("publishing should set published_at")
	}

	// View and like counters.
	rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/posts/%d/view", post.ID), nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("view: status = %d, want 204", rec.Code)
	}
	rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/posts/%d/like", post.ID), nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("like: status = %d, want 204", rec.Code)
	}

	// Delete, then the post is gone.
	rec = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/posts/%d", post.ID), nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d, want 204", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/posts/%d", post.ID), nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("after delete: status = %d, want 404", rec.Code)
	}
}

func TestGetPostBySlugEndpoint(t *testing.T) {
	r := newTestRouter(t)

	user := createUserViaAPI(t, r, "author@example.com", "author")
	post := createPostViaAPI(t, r, user.ID, "findable")

	rec := doJSON(t, r, http.MethodGet, "/posts/slug/findable", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var found PostResponse
	decodeData(t, rec, &found)
	if found.ID != post.ID {
		t.Errorf("ID = %d, want %d", found.ID, post.ID)
	}

	rec = doJSON(t, r, http.MethodGet, "/posts/slug/nope", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing slug: status = %d, want 404", rec.Code)
	}
}

func TestCreatePost_UnknownAuthor(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/posts", CreatePostRequest{
		Title: "Orphan", Slug: "orphan", AuthorID: 9999,
	}, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decoding error: %v", err)
	}
	if errResp.Error.Code != "not_found" {
		t.Errorf("error code = %q, want not_found", errResp.Error.Code)
	}
}

func TestListPostsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	user := createUserViaAPI(t, r, "author@example.com", "author")
	createPostViaAPI(t, r, user.ID, "one")
	createPostViaAPI(t, r, user.ID, "two")

	rec := doJSON(t, r, http.MethodGet, "/posts?per_page=1", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if env.Meta == nil || env.Meta.Total != 2 {
		t.Errorf("meta = %+v, want total 2", env.Meta)
	}

	var posts []PostResponse
	if err := json.Unmarshal(env.Data, &posts); err != nil {
		t.Fatalf("decoding posts: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("len(posts) = %d, want 1 page item", len(posts))
	}
}

func TestCommentEndpoints(t *testing.T) {
	r := newTestRouter(t)

	user := createUserViaAPI(t, r, "author@example.com", "author")
	post := createPostViaAPI(t, r, user.ID, "discussed")

	// Comment content is sanitized on the way in.
	rec := doJSON(t, r, http.MethodPost, fmt.Sprintf("/posts/%d/comments", post.ID),
		CreateCommentRequest{AuthorName: "Reader", Content: "hi <script>alert(1)</script> there"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create comment: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var comment CommentResponse
	decodeData(t, rec, &comment)
	if comment.IsApproved {
		t.Error("new comment should start unapproved")
	}
	if bytes.Contains([]byte(comment.Content), []byte("<script")) {
		t.Errorf("content %q should be sanitized", comment.Content)
	}

	// Reply on the wrong post maps to 422.
	other := createPostViaAPI(t, r, user.ID, "other")
	rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/posts/%d/comments", other.ID),
		CreateCommentRequest{ParentID: &comment.ID, AuthorName: "Reader", Content: "cross"}, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("cross-post reply: status = %d, want 422", rec.Code)
	}

	// Approve, then the filtered listing includes it.
	rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/comments/%d/approve", comment.ID), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: status = %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/posts/%d/comments?approved=true", post.ID), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	var comments []CommentResponse
	decodeData(t, rec, &comments)
	if len(comments) != 1 {
		t.Errorf("len(comments) = %d, want 1", len(comments))
	}

	// Subtree delete; deleting again is still 204.
	rec = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/comments/%d", comment.ID), nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d, want 204", rec.Code)
	}
	rec = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/comments/%d", comment.ID), nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("repeat delete: status = %d, want 204", rec.Code)
	}
}

func TestOptionalIDFields(t *testing.T) {
	r := newTestRouter(t)

	user := createUserViaAPI(t, r, "author@example.com", "author")

	rec := doJSON(t, r, http.MethodPost, "/categories",
		CreateCategoryRequest{Name: "News", Slug: "news"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var cat CategoryResponse
	decodeData(t, rec, &cat)

	// A post without a category omits category_id; one with a category echoes it.
	bare := createPostViaAPI(t, r, user.ID, "bare")
	if bare.CategoryID != nil {
		t.Errorf("uncategorized post: category_id = %v, want nil", *bare.CategoryID)
	}

	rec = doJSON(t, r, http.MethodPost, "/posts", CreatePostRequest{
		Title: "Filed", Slug: "filed", AuthorID: user.ID, CategoryID: &cat.ID,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var filed PostResponse
	decodeData(t, rec, &filed)
	if filed.CategoryID == nil || *filed.CategoryID != cat.ID {
		t.Errorf("category_id = %v, want %d", filed.CategoryID, cat.ID)
	}

	// A reply carries its parent's id; a root comment has none.
	rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/posts/%d/comments", filed.ID),
		CreateCommentRequest{AuthorName: "Reader", Content: "root"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create comment: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var root CommentResponse
	decodeData(t, rec, &root)
	if root.ParentID != nil {
		t.Errorf("root comment: parent_id = %v, want nil", *root.ParentID)
	}

	rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/posts/%d/comments", filed.ID),
		CreateCommentRequest{ParentID: &root.ID, AuthorName: "Reader", Content: "reply"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create reply: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var reply CommentResponse
	decodeData(t, rec, &reply)
	if reply.ParentID == nil || *reply.ParentID != root.ID {
		t.Errorf("parent_id = %v, want %d", reply.ParentID, root.ID)
	}
}

func TestTagEndpoints(t *testing.T) {
	r := newTestRouter(t)

	user := createUserViaAPI(t, r, "author@example.com", "author")
	post := createPostViaAPI(t, r, user.ID, "tagged")

	rec := doJSON(t, r, http.MethodPost, "/tags", CreateTagRequest{Name: "Go"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tag: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var tag TagResponse
	decodeData(t, rec, &tag)
	if tag.Slug != "go" {
		t.Errorf("Slug = %q, want derived %q", tag.Slug, "go")
	}

	attachPath := fmt.Sprintf("/posts/%d/tags/%d", post.ID, tag.ID)

	rec = doJSON(t, r, http.MethodPut, attachPath, nil, nil)
	if rec.Code != http.StatusCreated {
		t.Errorf("attach: status = %d, want 201", rec.Code)
	}

	// Duplicate association maps to 409.
	rec = doJSON(t, r, http.MethodPut, attachPath, nil, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate attach: status = %d, want 409", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/posts/%d/tags", post.ID), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list tags: status = %d", rec.Code)
	}
	var tags []TagResponse
	decodeData(t, rec, &tags)
	if len(tags) != 1 {
		t.Errorf("len(tags) = %d, want 1", len(tags))
	}

	// Detach twice; both are 204.
	for i := 0; i < 2; i++ {
		rec = doJSON(t, r, http.MethodDelete, attachPath, nil, nil)
		if rec.Code != http.StatusNoContent {
			t.Errorf("detach %d: status = %d, want 204", i, rec.Code)
		}
	}
}

func TestCategoryEndpoints(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/categories", CreateCategoryRequest{Name: "Tech Writing"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var cat CategoryResponse
	decodeData(t, rec, &cat)
	if cat.Slug != "tech-writing" {
		t.Errorf("Slug = %q, want derived %q", cat.Slug, "tech-writing")
	}

	// Duplicate name maps to 409.
	rec = doJSON(t, r, http.MethodPost, "/categories", CreateCategoryRequest{Name: "Tech Writing"}, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate: status = %d, want 409", rec.Code)
	}

	rec = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/categories/%d", cat.ID), nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d, want 204", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/categories/%d", cat.ID), nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("after delete: status = %d, want 404", rec.Code)
	}
}
