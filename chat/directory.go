package chat

import (
	"errors"

	"sustbazaar/apperror"
	"sustbazaar/model"

	"gorm.io/gorm"
)

// ListingRef points a chat at the listing it is about: a product, an
// accommodation, or neither for a general conversation. Setting both is
// invalid.
type ListingRef struct {
	ProductID       *uint
	AccommodationID *uint
}

func (r ListingRef) None() bool {
	return r.ProductID == nil && r.AccommodationID == nil
}

// Thread is a chat annotated for the caller's thread list.
type Thread struct {
	Chat        model.Chat     `json:"chat"`
	Counterpart model.User     `json:"counterpart"`
	LastMessage *model.Message `json:"last_message,omitempty"`
	UnreadCount int64          `json:"unread_count"`
}

// Directory resolves the unique thread for a pair of users and a listing
// context, and answers membership questions for both the REST and the
// realtime paths.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// GetOrCreate returns the one thread for the unordered pair
// {userID, counterpartyID} and the exact listing ref, creating it when
// absent. A counterpartyID of zero derives the counterparty from the
// listing owner. Lookup and create run in one transaction so concurrent
// first-contacts cannot fan out into duplicate threads.
func (d *Directory) GetOrCreate(userID, counterpartyID uint, ref ListingRef) (*model.Chat, error) {
	if ref.ProductID != nil && ref.AccommodationID != nil {
		return nil, apperror.InvalidRequest("A chat references at most one listing", nil)
	}
	if counterpartyID == 0 && ref.None() {
		return nil, apperror.InvalidRequest("Counterparty or listing required", nil)
	}

	ownerID, err := d.resolveListingOwner(ref)
	if err != nil {
		return nil, err
	}
	if counterpartyID == 0 {
		counterpartyID = ownerID
	}

	if counterpartyID == userID {
		return nil, apperror.InvalidRequest("Cannot open a chat with yourself", nil)
	}

	if err := d.db.First(new(model.User), counterpartyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Counterparty", err)
		}
		return nil, apperror.Internal("Internal server error", err)
	}

	chat := new(model.Chat)
	err = d.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Where(
			"(participant_a_id = ? AND participant_b_id = ?) OR (participant_a_id = ? AND participant_b_id = ?)",
			userID, counterpartyID, counterpartyID, userID,
		)
		query = listingScope(query, ref)

		if err := query.First(chat).Error; err == nil {
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// First contact only: the listing owner may resolve an existing
		// thread about their own listing (the pair is unordered), but
		// cannot be the one to open it.
		if !ref.None() && ownerID == userID {
			return apperror.InvalidRequest("Cannot open a chat about your own listing", nil)
		}

		chat.ParticipantAID = userID
		chat.ParticipantBID = counterpartyID
		chat.ProductID = ref.ProductID
		chat.AccommodationID = ref.AccommodationID
		return tx.Create(chat).Error
	})
	if err != nil {
		return nil, apperror.From(err)
	}

	return chat, nil
}

// ListThreadsFor returns every thread the user participates in, most
// recently active first, annotated with the counterpart, the latest
// message and the caller's unread count.
func (d *Directory) ListThreadsFor(userID uint) ([]Thread, error) {
	chats := []model.Chat{}
	err := d.db.
		Where("participant_a_id = ? OR participant_b_id = ?", userID, userID).
		Order("updated_at desc").
		Preload("ParticipantA").Preload("ParticipantB").
		Preload("Product").Preload("Accommodation").
		Find(&chats).Error
	if err != nil {
		return nil, apperror.Internal("Internal server error", err)
	}

	threads := make([]Thread, 0, len(chats))
	for _, chat := range chats {
		thread := Thread{Chat: chat}

		if chat.ParticipantAID == userID {
			thread.Counterpart = chat.ParticipantB
		} else {
			thread.Counterpart = chat.ParticipantA
		}

		last := new(model.Message)
		err := d.db.
			Where(&model.Message{ChatID: chat.ID}).
			Order("id desc").
			Preload("Sender").
			First(last).Error
		if err == nil {
			thread.LastMessage = last
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Internal("Internal server error", err)
		}

		if err := d.db.Model(&model.Message{}).
			Where("chat_id = ? AND sender_id <> ? AND read = ?", chat.ID, userID, false).
			Count(&thread.UnreadCount).Error; err != nil {
			return nil, apperror.Internal("Internal server error", err)
		}

		threads = append(threads, thread)
	}

	return threads, nil
}

// AssertParticipant loads the chat and confirms userID occupies one of its
// two slots. Shared by message-history retrieval, room joins and sends.
func (d *Directory) AssertParticipant(chatID, userID uint) (*model.Chat, error) {
	chat := new(model.Chat)
	if err := d.db.First(chat, chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Chat", err)
		}
		return nil, apperror.Internal("Internal server error", err)
	}

	if !chat.HasParticipant(userID) {
		return nil, apperror.Forbidden("Not a participant of this chat", nil)
	}

	return chat, nil
}

func (d *Directory) resolveListingOwner(ref ListingRef) (uint, error) {
	switch {
	case ref.ProductID != nil:
		product := new(model.Product)
		if err := d.db.First(product, *ref.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, apperror.NotFound("Product", err)
			}
			return 0, apperror.Internal("Internal server error", err)
		}
		return product.OwnerID, nil
	case ref.AccommodationID != nil:
		accommodation := new(model.Accommodation)
		if err := d.db.First(accommodation, *ref.AccommodationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, apperror.NotFound("Accommodation", err)
			}
			return 0, apperror.Internal("Internal server error", err)
		}
		return accommodation.OwnerID, nil
	}
	return 0, nil
}

// listingScope narrows a chat query to the exact listing context: a
// listing-specific thread and a listing-less thread between the same two
// people are distinct.
func listingScope(query *gorm.DB, ref ListingRef) *gorm.DB {
	if ref.ProductID != nil {
		query = query.Where("product_id = ?", *ref.ProductID)
	} else {
		query = query.Where("product_id IS NULL")
	}
	if ref.AccommodationID != nil {
		query = query.Where("accommodation_id = ?", *ref.AccommodationID)
	} else {
		query = query.Where("accommodation_id IS NULL")
	}
	return query
}
