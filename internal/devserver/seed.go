package devserver

import "fmt"

// Seed loads two demo accounts, a handful of listings and one
// conversation so a fresh TUI has something to show. Idempotent in
// practice: a second run fails on the unique email index and is
// reported, not silently duplicated.
func Seed(store *Store) error {
	rehomerType := "Rehomer"
	adopterType := "Adopter"

	rehomer, err := store.CreateAccount("rehomer@example.com", "password", "Robin Rehomer")
	if err != nil {
		return fmt.Errorf("seed rehomer: %w", err)
	}
	if _, err := store.UpdateProfile(rehomer.ID, rehomer.DisplayName, &rehomerType); err != nil {
		return err
	}
	adopter, err := store.CreateAccount("adopter@example.com", "password", "Alex Adopter")
	if err != nil {
		return fmt.Errorf("seed adopter: %w", err)
	}
	if _, err := store.UpdateProfile(adopter.ID, adopter.DisplayName, &adopterType); err != nil {
		return err
	}

	if err := store.SaveRehomer(&RehomerRecord{
		UserID:             rehomer.ID,
		Bio:                "Fostering since 2019. All animals vet-checked.",
		AddressDisplayName: "Portland, OR",
		Latitude:           45.5152,
		Longitude:          -122.6784,
	}); err != nil {
		return err
	}

	animals := []AnimalRecord{
		{RehomerID: rehomer.ID, Name: "Biscuit", Gender: "Male", AgeInWeeks: 12, Neutered: false, Description: "Playful terrier mix.", AddressDisplayName: "Portland, OR"},
		{RehomerID: rehomer.ID, Name: "Clementine", Gender: "Female", AgeInWeeks: 40, Neutered: true, Description: "Calm tabby, good with kids.", AddressDisplayName: "Portland, OR"},
		{RehomerID: rehomer.ID, Name: "Moss", Gender: "Male", AgeInWeeks: 104, Neutered: true, Description: "Senior greyhound, couch expert.", AddressDisplayName: "Beaverton, OR"},
	}
	for i := range animals {
		if err := store.CreateListing(&animals[i]); err != nil {
			return fmt.Errorf("seed listing %s: %w", animals[i].Name, err)
		}
	}

	conv, err := store.CreateConversation(adopter.ID, rehomer.ID, &animals[0].ID)
	if err != nil {
		return err
	}
	if _, err := store.AddMessage(conv.ID, adopter.ID, "Hi! Is Biscuit still available?"); err != nil {
		return err
	}
	if _, err := store.AddMessage(conv.ID, rehomer.ID, "He is! Want to set up a visit?"); err != nil {
		return err
	}
	return nil
}
