package chat

import (
	"testing"
	"time"

	"sustbazaar/apperror"
	"sustbazaar/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRejectsEmptyText(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	chat, err := NewDirectory(db).GetOrCreate(alice.ID, bob.ID, ListingRef{})
	require.NoError(t, err)

	store := NewStore(db)
	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := store.Append(chat.ID, alice.ID, text)
		require.Error(t, err)
		assert.True(t, apperror.Is(err, apperror.CodeInvalidRequest))
	}

	var count int64
	require.NoError(t, db.Model(&model.Message{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAppendReturnsSenderAndBumpsChat(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	chat, err := NewDirectory(db).GetOrCreate(alice.ID, bob.ID, ListingRef{})
	require.NoError(t, err)
	createdAt := chat.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	message, err := NewStore(db).Append(chat.ID, alice.ID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", message.Text)
	assert.False(t, message.Read)
	assert.Equal(t, alice.ID, message.SenderID)
	assert.Equal(t, "alice", message.Sender.Username)

	reloaded := new(model.Chat)
	require.NoError(t, db.First(reloaded, chat.ID).Error)
	assert.True(t, reloaded.UpdatedAt.After(createdAt))
}

func TestListForOrderingAndReadFlip(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	chat, err := NewDirectory(db).GetOrCreate(alice.ID, bob.ID, ListingRef{})
	require.NoError(t, err)
	store := NewStore(db)

	_, err = store.Append(chat.ID, alice.ID, "hello")
	require.NoError(t, err)
	_, err = store.Append(chat.ID, bob.ID, "hi")
	require.NoError(t, err)
	_, err = store.Append(chat.ID, alice.ID, "price?")
	require.NoError(t, err)

	// Everything starts unread.
	var unread int64
	require.NoError(t, db.Model(&model.Message{}).Where("read = ?", false).Count(&unread).Error)
	assert.EqualValues(t, 3, unread)

	// Bob fetches: send order preserved, alice's messages flip to read,
	// bob's own stays untouched.
	messages, err := store.ListFor(chat.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "hello", messages[0].Text)
	assert.Equal(t, "hi", messages[1].Text)
	assert.Equal(t, "price?", messages[2].Text)
	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}

	assert.True(t, messages[0].Read)
	assert.False(t, messages[1].Read)
	assert.True(t, messages[2].Read)

	// Persisted state matches the returned annotations.
	stored := []model.Message{}
	require.NoError(t, db.Order("id asc").Find(&stored).Error)
	assert.True(t, stored[0].Read)
	assert.False(t, stored[1].Read)
	assert.True(t, stored[2].Read)

	// Alice fetches next: bob's "hi" flips too.
	_, err = store.ListFor(chat.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, db.Order("id asc").Find(&stored).Error)
	assert.True(t, stored[1].Read)
}

func TestListForScopedToChat(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	directory := NewDirectory(db)
	store := NewStore(db)

	withBob, err := directory.GetOrCreate(alice.ID, bob.ID, ListingRef{})
	require.NoError(t, err)
	withCarol, err := directory.GetOrCreate(alice.ID, carol.ID, ListingRef{})
	require.NoError(t, err)

	_, err = store.Append(withBob.ID, bob.ID, "one")
	require.NoError(t, err)
	_, err = store.Append(withCarol.ID, carol.ID, "two")
	require.NoError(t, err)

	// Reading the bob thread leaves carol's message unread.
	_, err = store.ListFor(withBob.ID, alice.ID)
	require.NoError(t, err)

	other := new(model.Message)
	require.NoError(t, db.Where(&model.Message{ChatID: withCarol.ID}).First(other).Error)
	assert.False(t, other.Read)
}
