package search

import (
	"fmt"

	"github.com/meilisearch/meilisearch-go"

	"rentcompare/internal/models"
)

// SearchClient indexes apartment listings in Meilisearch so users can search
// their saved apartments by name or address. Search is an optional feature;
// the API degrades to database listing when it is disabled.
type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "apartments",
	}
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"name",
		"address",
	})
	if err != nil {
		return err
	}

	// user_id must be filterable so searches stay scoped to the owner
	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"id",
		"user_id",
		"rent",
		"square_footage",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"rent",
		"square_footage",
		"created_at",
	})
	return err
}

// IndexApartment indexes a single apartment
func (s *SearchClient) IndexApartment(apt *models.Apartment) error {
	_, err := s.client.Index(s.index).AddDocuments([]models.Apartment{*apt})
	return err
}

// IndexApartments indexes multiple apartments
func (s *SearchClient) IndexApartments(apartments []models.Apartment) error {
	if len(apartments) == 0 {
		return nil
	}
	_, err := s.client.Index(s.index).AddDocuments(apartments)
	return err
}

// RemoveApartment removes a deleted apartment from the index
func (s *SearchClient) RemoveApartment(id string) error {
	_, err := s.client.Index(s.index).DeleteDocument(id)
	return err
}

// Search returns a user's apartments matching the query
func (s *SearchClient) Search(userID, query string, limit int64) ([]models.Apartment, error) {
	if limit == 0 {
		limit = 20
	}

	searchRes, err := s.client.Index(s.index).Search(query, &meilisearch.SearchRequest{
		Limit:  limit,
		Filter: fmt.Sprintf("user_id = '%s'", userID),
	})
	if err != nil {
		return nil, err
	}

	apartments := make([]models.Apartment, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		apartments = append(apartments, parseApartmentFromHit(hit))
	}

	return apartments, nil
}

// parseApartmentFromHit converts a search hit to an Apartment
func parseApartmentFromHit(hit interface{}) models.Apartment {
	hitMap, ok := hit.(map[string]interface{})
	if !ok {
		return models.Apartment{}
	}

	apt := models.Apartment{
		ID:      getString(hitMap, "id"),
		UserID:  getString(hitMap, "user_id"),
		Name:    getString(hitMap, "name"),
		Address: getString(hitMap, "address"),
	}

	if v, ok := hitMap["rent"].(float64); ok {
		apt.Rent = v
	}
	if v, ok := hitMap["square_footage"].(float64); ok {
		apt.SquareFootage = int(v)
	}

	return apt
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
