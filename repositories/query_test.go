package repositories

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userColumns = "id::text AS id, email, name, role, is_verified, is_company, is_owner, is_renter, avatar_url, phone, created_at, updated_at"

func TestBuildList(t *testing.T) {
	t.Run("filters sorts and range", func(t *testing.T) {
		q, err := UserSchema.BuildList(ListParams{
			Filters: []Filter{
				{Field: "isCompany", Operator: OpEq, Value: true},
				{Field: "name", Operator: OpContains, Value: "acme"},
			},
			Sorts:      []Sort{{Field: "created_at", Desc: true}, {Field: "name"}},
			Pagination: Pagination{Current: 3, PageSize: 12},
		})
		require.NoError(t, err)

		assert.Equal(t, "SELECT COUNT(*) FROM users WHERE is_company = $1 AND name ILIKE $2 ESCAPE '\\'", q.Count.SQL)
		assert.Equal(t, []any{true, "%acme%"}, q.Count.Args)
		assert.Equal(t,
			"SELECT "+userColumns+" FROM users WHERE is_company = $1 AND name ILIKE $2 ESCAPE '\\' ORDER BY created_at DESC, name ASC LIMIT $3 OFFSET $4",
			q.Data.SQL)
		assert.Equal(t, []any{true, "%acme%", 12, 24}, q.Data.Args)
	})

	t.Run("default pagination and sort", func(t *testing.T) {
		q, err := UserSchema.BuildList(ListParams{})
		require.NoError(t, err)

		assert.Equal(t, "SELECT COUNT(*) FROM users", q.Count.SQL)
		assert.Empty(t, q.Count.Args)
		assert.Equal(t, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2", q.Data.SQL)
		assert.Equal(t, []any{DefaultPageSize, 0}, q.Data.Args)
	})

	t.Run("offset follows page", func(t *testing.T) {
		for _, tc := range []struct {
			current, size, offset int
		}{
			{1, 10, 0},
			{2, 10, 10},
			{5, 12, 48},
			{0, 0, 0},
		} {
			q, err := UserSchema.BuildList(ListParams{Pagination: Pagination{Current: tc.current, PageSize: tc.size}})
			require.NoError(t, err)
			n := len(q.Data.Args)
			assert.Equal(t, tc.offset, q.Data.Args[n-1])
		}
	})

	t.Run("operators", func(t *testing.T) {
		q, err := VerificationSchema.BuildList(ListParams{
			Filters: []Filter{
				{Field: "id", Operator: OpGte, Value: "10"},
				{Field: "id", Operator: OpLt, Value: 20},
				{Field: "status", Operator: OpNeq, Value: "REJECTED"},
				{Field: "id", Operator: OpContains, Value: 1},
				{Field: "user_id", Operator: OpEq, Value: "5d0c3a4e-8a55-4f43-9c55-3f1f2c2f0a11"},
				{Field: "license_image_url", Operator: OpEq, Value: nil},
			},
		})
		require.NoError(t, err)

		assert.Equal(t,
			"SELECT COUNT(*) FROM verification WHERE id >= $1 AND id < $2 AND status <> $3 AND CAST(id AS TEXT) ILIKE $4 ESCAPE '\\' AND user_id = $5::text::uuid AND license_image_url IS NULL",
			q.Count.SQL)
		assert.Equal(t, []any{int64(10), int64(20), "REJECTED", "%1%", "5d0c3a4e-8a55-4f43-9c55-3f1f2c2f0a11"}, q.Count.Args)
	})

	t.Run("string booleans are coerced", func(t *testing.T) {
		q, err := UserSchema.BuildList(ListParams{Filters: []Filter{{Field: "isVerified", Operator: OpEq, Value: "false"}}})
		require.NoError(t, err)
		assert.Equal(t, []any{false}, q.Count.Args)
	})

	t.Run("rejects unknown input", func(t *testing.T) {
		_, err := UserSchema.BuildList(ListParams{Filters: []Filter{{Field: "password", Operator: OpEq, Value: "x"}}})
		assert.ErrorIs(t, err, ErrInvalidField)

		_, err = UserSchema.BuildList(ListParams{Filters: []Filter{{Field: "name", Operator: "like", Value: "x"}}})
		assert.ErrorIs(t, err, ErrInvalidOperator)

		_, err = UserSchema.BuildList(ListParams{Sorts: []Sort{{Field: "name; DROP TABLE users"}}})
		assert.ErrorIs(t, err, ErrInvalidField)

		_, err = VerificationSchema.BuildList(ListParams{Filters: []Filter{{Field: "id", Operator: OpEq, Value: "abc"}}})
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = UserSchema.BuildList(ListParams{Filters: []Filter{{Field: "phone", Operator: OpGt, Value: nil}}})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestContainsMatchesWildcardsLiterally(t *testing.T) {
	q, err := UserSchema.BuildList(ListParams{
		Filters: []Filter{{Field: "name", Operator: OpContains, Value: `50%_off\now`}},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM users WHERE name ILIKE $1 ESCAPE '\\'", q.Count.SQL)
	assert.Equal(t, []any{`%50\%\_off\\now%`}, q.Count.Args)
}

func TestPaginationBounds(t *testing.T) {
	huge := Pagination{Current: math.MaxInt, PageSize: 100}
	assert.ErrorIs(t, huge.Validate(), ErrInvalidValue)
	assert.ErrorIs(t, Pagination{Current: 1, PageSize: math.MaxInt}.Validate(), ErrInvalidValue)
	assert.NoError(t, Pagination{Current: 5, PageSize: 100}.Validate())
	assert.NoError(t, Pagination{}.Validate())

	clamped := huge.Normalize()
	assert.GreaterOrEqual(t, clamped.Offset(), 0)
	assert.LessOrEqual(t, clamped.Offset(), MaxOffset)

	q, err := UserSchema.BuildList(ListParams{Pagination: huge})
	require.NoError(t, err)
	offset := q.Data.Args[len(q.Data.Args)-1].(int)
	assert.GreaterOrEqual(t, offset, 0)
}

func TestParseOperator(t *testing.T) {
	for _, in := range []string{"eq", "neq", "lt", "gt", "lte", "gte", "contains", "EQ"} {
		_, err := ParseOperator(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseOperator("in")
	assert.ErrorIs(t, err, ErrInvalidOperator)
}

func TestBuildWrites(t *testing.T) {
	const id = "5d0c3a4e-8a55-4f43-9c55-3f1f2c2f0a11"

	t.Run("update sets only given fields", func(t *testing.T) {
		st, err := UserSchema.BuildUpdate(id, map[string]any{"isVerified": true})
		require.NoError(t, err)
		assert.Equal(t, "UPDATE users SET is_verified = $1, updated_at = NOW() WHERE id = $2::text::uuid RETURNING "+userColumns, st.SQL)
		assert.Equal(t, []any{true, id}, st.Args)
	})

	t.Run("update keeps schema column order", func(t *testing.T) {
		st, err := UserSchema.BuildUpdate(id, map[string]any{"phone": "+62", "name": "Budi", "isOwner": "true"})
		require.NoError(t, err)
		assert.Equal(t, "UPDATE users SET name = $1, is_owner = $2, phone = $3, updated_at = NOW() WHERE id = $4::text::uuid RETURNING "+userColumns, st.SQL)
		assert.Equal(t, []any{"Budi", true, "+62", id}, st.Args)
	})

	t.Run("status is validated", func(t *testing.T) {
		_, err := VerificationSchema.BuildUpdate("7", map[string]any{"status": "ARCHIVED"})
		assert.ErrorIs(t, err, ErrInvalidValue)

		st, err := VerificationSchema.BuildUpdate("7", map[string]any{"status": "PENDING"})
		require.NoError(t, err)
		assert.Equal(t, []any{"PENDING", int64(7)}, st.Args)
	})

	t.Run("rejects protected fields", func(t *testing.T) {
		_, err := UserSchema.BuildUpdate(id, map[string]any{"created_at": "2024-01-01"})
		assert.ErrorIs(t, err, ErrInvalidField)

		_, err = UserSchema.BuildUpdate(id, map[string]any{})
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = UserSchema.BuildUpdate(id, map[string]any{"email": "not-an-email"})
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = UserSchema.BuildUpdate(id, map[string]any{"isVerified": nil})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("read-only resources", func(t *testing.T) {
		_, err := RentalRequestSchema.BuildUpdate("1", map[string]any{"status": "approved"})
		assert.ErrorIs(t, err, ErrReadOnly)

		_, err = HistorySchema.BuildInsert(map[string]any{"title": "x"})
		assert.ErrorIs(t, err, ErrReadOnly)

		_, err = DealSchema.BuildDelete("1")
		assert.ErrorIs(t, err, ErrReadOnly)
	})

	t.Run("keyed insert", func(t *testing.T) {
		st, err := UserSchema.BuildInsertKeyed(id, map[string]any{"email": "a@b.co", "role": "admin"})
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO users (id, email, role) VALUES ($1::text::uuid, $2, $3) RETURNING "+userColumns, st.SQL)
		assert.Equal(t, []any{id, "a@b.co", "admin"}, st.Args)
	})

	t.Run("delete and get one", func(t *testing.T) {
		st, err := VerificationSchema.BuildDelete("42")
		require.NoError(t, err)
		assert.Equal(t, "DELETE FROM verification WHERE id = $1", st.SQL)
		assert.Equal(t, []any{int64(42)}, st.Args)

		st, err = UserSchema.BuildGetOne(id)
		require.NoError(t, err)
		assert.Equal(t, "SELECT "+userColumns+" FROM users WHERE id = $1::text::uuid", st.SQL)
	})
}

func TestBuildFindIn(t *testing.T) {
	st, err := UserSchema.BuildFindIn("id", []any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT "+userColumns+" FROM users WHERE id = ANY($1::text[]::uuid[])", st.SQL)
	assert.Equal(t, []any{[]string{"a", "b"}}, st.Args)

	st, err = DealSchema.BuildFindIn("id", []any{1, "2", int64(3)})
	require.NoError(t, err)
	assert.Equal(t, []any{[]int64{1, 2, 3}}, st.Args)

	_, err = DealSchema.BuildFindIn("value", []any{1.5})
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestProvider(t *testing.T) {
	p := NewProvider(
		Erase(NewTable[struct{}](nil, UserSchema)),
		Erase(NewTable[struct{}](nil, HistorySchema)),
	)

	a, err := p.Resource("users")
	require.NoError(t, err)
	assert.Equal(t, "users", a.Schema().Resource)
	assert.Equal(t, []string{"history", "users"}, p.Resources())

	_, err = p.Resource("rentals")
	assert.ErrorIs(t, err, ErrUnknownResource)
	_, err = p.Resource("")
	assert.ErrorIs(t, err, ErrUnknownResource)

	ctx := context.Background()
	assert.ErrorIs(t, p.GetMany(ctx, "users", []string{"1"}), ErrUnsupported)
	assert.ErrorIs(t, p.CreateMany(ctx, "users", nil), ErrUnsupported)
	assert.ErrorIs(t, p.UpdateMany(ctx, "users", nil, nil), ErrUnsupported)
	assert.ErrorIs(t, p.DeleteMany(ctx, "users", nil), ErrUnsupported)
}
