package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"
	"time"

	"rental-admin/models"
	"rental-admin/pkg/logger"
	"rental-admin/repositories"
	"rental-admin/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUsers() *memUsers {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return newMemUsers(
		models.User{ID: "u1", Name: "Acme Rentals", Email: "ops@acme.test", Role: "user", IsCompany: true, IsOwner: true, CreatedAt: base.Add(3 * time.Hour)},
		models.User{ID: "u2", Name: "Budi", Email: "budi@mail.test", Role: "user", IsRenter: true, CreatedAt: base.Add(2 * time.Hour)},
		models.User{ID: "u3", Name: "Citra Fleet", Email: "citra@fleet.test", Role: "user", IsCompany: true, CreatedAt: base.Add(1 * time.Hour)},
		models.User{ID: "u4", Name: "Admin", Email: "admin@rental.test", Role: "admin", IsVerified: true, CreatedAt: base},
	)
}

func TestUserQueryParams(t *testing.T) {
	q := UserQuery{Companies: true, Search: " acme ", IsVerified: boolPtr(false), Role: "user"}.Normalize()
	p := q.Params()

	require.Len(t, p.Filters, 4)
	assert.Equal(t, repositories.Filter{Field: "isCompany", Operator: repositories.OpEq, Value: true}, p.Filters[0])
	assert.Equal(t, repositories.Filter{Field: "name", Operator: repositories.OpContains, Value: "acme"}, p.Filters[1])
	assert.Equal(t, []repositories.Sort{{Field: "created_at", Desc: true}}, p.Sorts)
	assert.Equal(t, repositories.Pagination{Current: 1, PageSize: CompaniesPageSize}, p.Pagination)

	assert.Equal(t, UsersPageSize, UserQuery{}.Normalize().Limit)
	assert.Equal(t, MaxPageSize, UserQuery{Limit: 1000}.Normalize().Limit)
}

func TestUserServiceList(t *testing.T) {
	store := seedUsers()
	svc := NewUserService(store, nil, true, logger.NewNop())
	ctx := context.Background()

	t.Run("companies only", func(t *testing.T) {
		res, err := svc.ListCompanies(ctx, UserQuery{})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		for _, u := range res.Data {
			assert.True(t, u.IsCompany)
		}
		assert.Equal(t, "u1", res.Data[0].ID, "newest first")
	})

	t.Run("page range", func(t *testing.T) {
		res, err := svc.ListUsers(ctx, UserQuery{Page: 2, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, 4, res.Total)
		require.Len(t, res.Data, 1)
		assert.Equal(t, "u4", res.Data[0].ID)
	})

	t.Run("store failure", func(t *testing.T) {
		broken := newMemUsers()
		broken.err = errBoom
		_, err := NewUserService(broken, nil, true, logger.NewNop()).ListUsers(ctx, UserQuery{})
		assert.ErrorIs(t, err, errBoom)
	})
}

func TestUserServiceSetVerified(t *testing.T) {
	ctx := context.Background()

	t.Run("false to true reads back true", func(t *testing.T) {
		store := seedUsers()
		svc := NewUserService(store, nil, true, logger.NewNop())

		user, err := svc.SetVerified(ctx, "u2", true)
		require.NoError(t, err)
		assert.True(t, user.IsVerified)

		again, err := svc.Get(ctx, "u2")
		require.NoError(t, err)
		assert.True(t, again.IsVerified)
	})

	t.Run("unverify allowed by default", func(t *testing.T) {
		svc := NewUserService(seedUsers(), nil, true, logger.NewNop())
		user, err := svc.SetVerified(ctx, "u4", false)
		require.NoError(t, err)
		assert.False(t, user.IsVerified)
	})

	t.Run("unverify disabled", func(t *testing.T) {
		svc := NewUserService(seedUsers(), nil, false, logger.NewNop())
		_, err := svc.SetVerified(ctx, "u4", false)
		assert.ErrorIs(t, err, ErrUnverifyNotAllowed)

		// already unverified rows can still be written
		_, err = svc.SetVerified(ctx, "u2", false)
		assert.NoError(t, err)
	})

	t.Run("missing user", func(t *testing.T) {
		svc := NewUserService(seedUsers(), nil, true, logger.NewNop())
		_, err := svc.SetVerified(ctx, "nope", true)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestUserServiceEdit(t *testing.T) {
	ctx := context.Background()
	store := seedUsers()
	svc := NewUserService(store, nil, true, logger.NewNop())

	user, err := svc.Update(ctx, "u2", models.UpdateUserRequest{Name: strPtr("Budi Santoso"), IsOwner: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", user.Name)
	assert.True(t, user.IsOwner)
	assert.True(t, user.IsRenter, "fields not sent stay untouched")

	company, err := svc.CreateCompany(ctx, models.CreateCompanyRequest{Email: "new@co.test", Name: "New Co"})
	require.NoError(t, err)
	assert.True(t, company.IsCompany)

	require.NoError(t, svc.Delete(ctx, company.ID))
	_, err = svc.Get(ctx, company.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = svc.UploadAvatar(ctx, "u2", nil)
	assert.ErrorIs(t, err, ErrUploadUnavailable)
}

// Listing companies, verifying one and listing again shows the new state.
func TestCompaniesVerifyScenario(t *testing.T) {
	ctx := context.Background()
	store := seedUsers()
	svc := NewUserService(store, nil, true, logger.NewNop())

	before, err := svc.ListCompanies(ctx, UserQuery{})
	require.NoError(t, err)
	require.NotEmpty(t, before.Data)
	target := before.Data[0]
	require.False(t, target.IsVerified)

	_, err = svc.SetVerified(ctx, target.ID, true)
	require.NoError(t, err)

	after, err := svc.ListCompanies(ctx, UserQuery{})
	require.NoError(t, err)
	assert.Equal(t, before.Total, after.Total)
	for _, u := range after.Data {
		assert.True(t, u.IsCompany)
		if u.ID == target.ID {
			assert.True(t, u.IsVerified)
		}
	}
}

type fakeUploader struct {
	uploaded []string
	deleted  []string
}

func (f *fakeUploader) UploadImage(ctx context.Context, file multipart.File, publicID, folder string) (string, string, error) {
	id := folder + "/" + publicID
	f.uploaded = append(f.uploaded, id)
	return "https://res.example.test/" + id + ".png", id, nil
}

func (f *fakeUploader) DeleteImage(ctx context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

func imageHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestUserServiceUploadAvatar(t *testing.T) {
	ctx := context.Background()

	t.Run("stores url", func(t *testing.T) {
		up := &fakeUploader{}
		svc := NewUserService(seedUsers(), up, true, logger.NewNop())

		user, err := svc.UploadAvatar(ctx, "u2", imageHeader(t, "me.png", []byte("png")))
		require.NoError(t, err)
		require.NotNil(t, user.AvatarURL)
		assert.Contains(t, *user.AvatarURL, "avatars/avatar_u2_")
		assert.Len(t, up.uploaded, 1)
		assert.Empty(t, up.deleted)
	})

	t.Run("rejects non images", func(t *testing.T) {
		up := &fakeUploader{}
		svc := NewUserService(seedUsers(), up, true, logger.NewNop())
		_, err := svc.UploadAvatar(ctx, "u2", imageHeader(t, "notes.txt", []byte("hi")))
		assert.ErrorIs(t, err, utils.ErrInvalidFileType)
		assert.Empty(t, up.uploaded)
	})

	t.Run("unknown user uploads nothing", func(t *testing.T) {
		up := &fakeUploader{}
		svc := NewUserService(seedUsers(), up, true, logger.NewNop())
		_, err := svc.UploadAvatar(ctx, "ghost", imageHeader(t, "me.png", []byte("png")))
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.Empty(t, up.uploaded)
	})

	t.Run("failed update removes upload", func(t *testing.T) {
		up := &fakeUploader{}
		store := seedUsers()
		store.updateErr = errBoom
		svc := NewUserService(store, up, true, logger.NewNop())

		_, err := svc.UploadAvatar(ctx, "u2", imageHeader(t, "me.png", []byte("png")))
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, up.uploaded, up.deleted)
	})
}
