package domain

import (
	"fmt"
	"time"
)

// AnimalPhoto is one entry of a listing's ordered photo set.
type AnimalPhoto struct {
	PhotoURL string `json:"photoUrl"`
	Order    int    `json:"order"`
}

func (p *AnimalPhoto) Validate() error {
	if !absoluteURL(p.PhotoURL) {
		return fmt.Errorf("photoUrl must be an absolute URL")
	}
	if p.Order < 0 {
		return fmt.Errorf("photo order must not be negative")
	}
	return nil
}

// Animal is a rehoming listing. Listings are created whole, listed with
// pagination and hard-deleted; there is no partial update or undo.
type Animal struct {
	AnimalID           string        `json:"animalId"`
	RehomerID          string        `json:"rehomerId"`
	Name               string        `json:"name"`
	Gender             string        `json:"gender"`
	AgeInWeeks         int           `json:"ageInWeeks"`
	Neutered           bool          `json:"neutered"`
	Description        string        `json:"description"`
	AddressDisplayName string        `json:"addressDisplayName"`
	Photos             []AnimalPhoto `json:"photos"`
	CreatedAt          time.Time     `json:"createdAt"`
}

func (a *Animal) Validate() error {
	if err := requireID("animalId", a.AnimalID); err != nil {
		return err
	}
	if a.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validGender(a.Gender) {
		return fmt.Errorf("gender %q is not a known gender", a.Gender)
	}
	if a.AgeInWeeks < 0 {
		return fmt.Errorf("ageInWeeks must not be negative")
	}
	if len(a.Description) > MaxDescriptionLn {
		return fmt.Errorf("description exceeds %d characters", MaxDescriptionLn)
	}
	for i := range a.Photos {
		if err := a.Photos[i].Validate(); err != nil {
			return fmt.Errorf("photo %d: %w", i, err)
		}
	}
	return nil
}

// AnimalPage is one page of the paginated listing feed.
type AnimalPage struct {
	Animals    []Animal `json:"animals"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalCount int      `json:"totalCount"`
}

func (p *AnimalPage) Validate() error {
	if p.Page < 0 || p.PageSize < 0 || p.TotalCount < 0 {
		return fmt.Errorf("pagination fields must not be negative")
	}
	for i := range p.Animals {
		if err := p.Animals[i].Validate(); err != nil {
			return fmt.Errorf("animal %d: %w", i, err)
		}
	}
	return nil
}
