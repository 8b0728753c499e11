package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"contacts-api/internal/domain"
	"contacts-api/internal/repository"
)

// BirthdayWindow is how far ahead UpcomingBirthdays looks.
const BirthdayWindow = 7 * 24 * time.Hour

// ContactInput is the full set of fields for a new contact.
type ContactInput struct {
	FirstName string
	LastName  string
	Email     string
	PhoneNum  string
	Birthday  time.Time
}

// ContactService exposes contact operations scoped to the owning user.
type ContactService interface {
	List(ctx context.Context, userID int64) ([]domain.Contact, error)
	Get(ctx context.Context, userID, id int64) (*domain.Contact, error)
	Create(ctx context.Context, userID int64, in ContactInput) (*domain.Contact, error)
	Update(ctx context.Context, userID, id int64, upd domain.ContactUpdate) (*domain.Contact, error)
	Delete(ctx context.Context, userID, id int64) (*domain.Contact, error)
	Search(ctx context.Context, userID int64, query string) ([]domain.Contact, error)
	UpcomingBirthdays(ctx context.Context, userID int64) ([]domain.Contact, error)
}

type contactService struct {
	contacts repository.ContactRepository
	now      func() time.Time
}

func NewContactService(contacts repository.ContactRepository) ContactService {
	return &contactService{
		contacts: contacts,
		now:      time.Now,
	}
}

func (s *contactService) List(ctx context.Context, userID int64) ([]domain.Contact, error) {
	contacts, err := s.contacts.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return nonNil(contacts), nil
}

func (s *contactService) Get(ctx context.Context, userID, id int64) (*domain.Contact, error) {
	contact, err := s.contacts.Get(ctx, userID, id)
	return contact, mapContactErr(err)
}

func (s *contactService) Create(ctx context.Context, userID int64, in ContactInput) (*domain.Contact, error) {
	contact := &domain.Contact{
		UserID:    userID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		PhoneNum:  strings.TrimSpace(in.PhoneNum),
		Birthday:  in.Birthday,
	}
	if _, err := s.contacts.Create(ctx, contact); err != nil {
		return nil, mapContactErr(err)
	}
	return contact, nil
}

func (s *contactService) Update(ctx context.Context, userID, id int64, upd domain.ContactUpdate) (*domain.Contact, error) {
	upd.Email = strings.TrimSpace(upd.Email)
	upd.PhoneNum = strings.TrimSpace(upd.PhoneNum)
	contact, err := s.contacts.Update(ctx, userID, id, upd)
	return contact, mapContactErr(err)
}

func (s *contactService) Delete(ctx context.Context, userID, id int64) (*domain.Contact, error) {
	contact, err := s.contacts.Delete(ctx, userID, id)
	return contact, mapContactErr(err)
}

func (s *contactService) Search(ctx context.Context, userID int64, query string) ([]domain.Contact, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx, userID)
	}
	contacts, err := s.contacts.Search(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	return nonNil(contacts), nil
}

func (s *contactService) UpcomingBirthdays(ctx context.Context, userID int64) ([]domain.Contact, error) {
	today := s.now()
	contacts, err := s.contacts.BirthdaysBetween(ctx, userID, today, today.Add(BirthdayWindow))
	if err != nil {
		return nil, err
	}
	return nonNil(contacts), nil
}

func mapContactErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrContactNotFound
	case errors.Is(err, repository.ErrAlreadyExists):
		return ErrContactExists
	default:
		return err
	}
}

func nonNil(contacts []domain.Contact) []domain.Contact {
	if contacts == nil {
		return []domain.Contact{}
	}
	return contacts
}
