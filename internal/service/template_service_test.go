package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aozu-ops-hub/internal/domain"
)

func ids(templates []domain.Template) []string {
	out := []string{}
	for _, t := range templates {
		out = append(out, t.ID)
	}
	return out
}

func TestTemplateCreate(t *testing.T) {
	store := newMemorySliceStore()
	svc := NewTemplateService(store, testLibrary())

	created, err := svc.Create(&domain.CreateTemplateRequest{
		Title:    "Late checkout",
		Category: "checkout",
		Platform: []string{"booking"},
		Body:     "Checkout is 11:00",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "user-"))
	assert.True(t, created.UserAdded)
	assert.Nil(t, created.EmojiVersion)

	assert.Equal(t, []string{"checkin", "review", created.ID}, ids(svc.List(domain.TemplateFilter{})))
	assert.Contains(t, store.raw(domain.SliceUserTemplates), `"emoji_version":null`)
	assert.NotContains(t, store.raw(domain.SliceUserTemplates), `"checkin"`)
}

func TestTemplateCreateRequiresPlatform(t *testing.T) {
	svc := NewTemplateService(newMemorySliceStore(), testLibrary())

	_, err := svc.Create(&domain.CreateTemplateRequest{Title: "x", Category: "c", Body: "b"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "platform", verr.Field)
}

func TestTemplateList(t *testing.T) {
	svc := NewTemplateService(newMemorySliceStore(), testLibrary())
	user, err := svc.Create(&domain.CreateTemplateRequest{
		Title: "Parking", Category: "checkin", Platform: []string{"spacee"}, Body: "Use lot B",
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter domain.TemplateFilter
		want   []string
	}{
		{"everything", domain.TemplateFilter{Category: "all", Platform: "all"}, []string{"checkin", "review", user.ID}},
		{"category", domain.TemplateFilter{Category: "checkin"}, []string{"checkin", user.ID}},
		{"platform membership", domain.TemplateFilter{Platform: "booking"}, []string{"checkin"}},
		{"query on body", domain.TemplateFilter{Query: "LOT b"}, []string{user.ID}},
		{"query on category", domain.TemplateFilter{Query: "review"}, []string{"review"}},
		{"combined", domain.TemplateFilter{Category: "checkin", Platform: "airbnb", Query: "welcome"}, []string{"checkin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(svc.List(tt.filter)))
		})
	}
}

func TestTemplateDelete(t *testing.T) {
	store := newMemorySliceStore()
	svc := NewTemplateService(store, testLibrary())
	user, err := svc.Create(&domain.CreateTemplateRequest{
		Title: "t", Category: "c", Platform: []string{"airbnb"}, Body: "b",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete("checkin"), ErrTemplateImmutable)
	assert.ErrorIs(t, svc.Delete("missing"), ErrNotFound)

	require.NoError(t, svc.Delete(user.ID))
	assert.Equal(t, `[]`, store.raw(domain.SliceUserTemplates))
	assert.Equal(t, []string{"checkin", "review"}, ids(svc.List(domain.TemplateFilter{})))
}

func TestTemplateCopyText(t *testing.T) {
	svc := NewTemplateService(newMemorySliceStore(), testLibrary())
	user, err := svc.Create(&domain.CreateTemplateRequest{
		Title: "t", Category: "c", Platform: []string{"airbnb"}, Body: "plain", EmojiVersion: "fancy ✨",
	})
	require.NoError(t, err)

	tests := []struct {
		name      string
		id        string
		emoji     bool
		wantText  string
		wantEmoji bool
	}{
		{"built-in body", "checkin", false, "Welcome!", false},
		{"built-in emoji", "checkin", true, "Welcome! 🎉", true},
		{"emoji missing falls back", "review", true, "Thanks for staying", false},
		{"user emoji", user.ID, true, "fancy ✨", true},
		{"user body", user.ID, false, "plain", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.CopyText(tt.id, tt.emoji)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantEmoji, got.Emoji)
		})
	}

	_, err = svc.CopyText("nope", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplateReplaceSlice(t *testing.T) {
	svc := NewTemplateService(newMemorySliceStore(), testLibrary())

	require.NoError(t, svc.ReplaceSlice(domain.SliceUserTemplates,
		[]byte(`[{"id":"user-1","title":"cloud","category":"c","platform":["airbnb"],"body":"b","emoji_version":null,"userAdded":true}]`), func() {}))
	assert.Equal(t, []string{"checkin", "review", "user-1"}, ids(svc.List(domain.TemplateFilter{})))

	require.NoError(t, svc.ReplaceSlice(domain.SliceUserTemplates, []byte(`null`), func() {}))
	assert.Equal(t, []string{"checkin", "review"}, ids(svc.List(domain.TemplateFilter{})))
}
