package service

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/model"
	"github.com/meilisearch/meilisearch-go"
)

type SearchService interface {
	IndexCourt(court *model.Court) error
	DeleteCourt(id string) error
	// SearchCourts returns matching court ids by relevance. Callers load
	// the rows from the database; the index never serves entity state.
	SearchCourts(query string) ([]uuid.UUID, error)
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	filterableAttrs := []string{"status"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index("courts").UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update courts filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at", "rating"}
	_, err = s.client.Index("courts").UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update courts sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type meiliCourtDoc struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Status      string  `json:"status"`
	Rating      float64 `json:"rating"`
	CreatedAt   int64   `json:"created_at"`
}

func (s *meiliSearchService) IndexCourt(court *model.Court) error {
	doc := meiliCourtDoc{
		ID:          court.ID.String(),
		Name:        court.Name,
		Description: court.Description,
		Address:     court.Address,
		Status:      string(court.Status),
		Rating:      court.Rating,
		CreatedAt:   court.CreatedAt.Unix(),
	}

	task, err := s.client.Index("courts").AddDocuments([]meiliCourtDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed court %s, task id: %d", court.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteCourt(id string) error {
	_, err := s.client.Index("courts").DeleteDocument(id)
	return err
}

func (s *meiliSearchService) SearchCourts(query string) ([]uuid.UUID, error) {
	resp, err := s.client.Index("courts").Search(query, &meilisearch.SearchRequest{
		Limit:  50,
		Filter: "status != deleted",
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc meiliCourtDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
