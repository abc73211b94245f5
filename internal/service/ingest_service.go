package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"

	"pillsee-be/internal/entity"
	"pillsee-be/internal/repository/contract"
	"pillsee-be/pkg/embedding"
	"pillsee-be/pkg/sukl"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const ingestTopic = "medication.ingest"

// IIngestService feeds registry records through an in-process event bus:
// the publisher side emits batches, the consumer side embeds each record and
// bulk-inserts it into the corpus. Decoupling the two keeps file parsing and
// embedding throughput independent.
type IIngestService interface {
	Consume(ctx context.Context) error
	Publish(ctx context.Context, batch []*sukl.Record) error
	Wait()
	Stats() (inserted, failed int64)
}

type ingestBatchMessage struct {
	Records []*sukl.Record `json:"records"`
}

type ingestService struct {
	pubSub            *gochannel.GoChannel
	medicationRepo    contract.MedicationRepository
	embeddingProvider embedding.Provider

	pending  sync.WaitGroup
	inserted atomic.Int64
	failed   atomic.Int64
}

func NewIngestService(medicationRepo contract.MedicationRepository, embeddingProvider embedding.Provider) IIngestService {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	return &ingestService{
		pubSub:            pubSub,
		medicationRepo:    medicationRepo,
		embeddingProvider: embeddingProvider,
	}
}

func (s *ingestService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, ingestTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *ingestService) Publish(ctx context.Context, batch []*sukl.Record) error {
	payload, err := json.Marshal(ingestBatchMessage{Records: batch})
	if err != nil {
		return err
	}

	s.pending.Add(1)
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(ingestTopic, msg); err != nil {
		s.pending.Done()
		return err
	}
	return nil
}

// Wait blocks until every published batch has been processed.
func (s *ingestService) Wait() {
	s.pending.Wait()
}

func (s *ingestService) Stats() (inserted, failed int64) {
	return s.inserted.Load(), s.failed.Load()
}

func (s *ingestService) processMessage(ctx context.Context, msg *message.Message) {
	defer s.pending.Done()

	var payload ingestBatchMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest batch: %v", err)
		msg.Ack() // invalid payloads are not retriable
		return
	}

	medications := make([]*entity.Medication, 0, len(payload.Records))
	for _, record := range payload.Records {
		medication, err := s.embed(ctx, record)
		if err != nil {
			log.Printf("[ERROR] Failed to embed %q: %v", record.Name, err)
			s.failed.Add(1)
			continue
		}
		medications = append(medications, medication)
	}

	if len(medications) > 0 {
		if err := s.medicationRepo.CreateBulk(ctx, medications); err != nil {
			log.Printf("[ERROR] Failed to insert batch: %v", err)
			s.failed.Add(int64(len(medications)))
			msg.Ack()
			return
		}
		s.inserted.Add(int64(len(medications)))
	}

	msg.Ack()
}

func (s *ingestService) embed(ctx context.Context, record *sukl.Record) (*entity.Medication, error) {
	embeddingText := record.EmbeddingText()
	resp, err := s.embeddingProvider.Generate(ctx, embeddingText)
	if err != nil {
		return nil, err
	}

	return &entity.Medication{
		Id:                   uuid.New(),
		Name:                 record.Name,
		ActiveIngredient:     record.ActiveIngredient,
		Strength:             record.Strength,
		Form:                 record.Form,
		Manufacturer:         record.Manufacturer,
		RegistrationNumber:   record.RegistrationNumber,
		AtcCode:              record.AtcCode,
		Indication:           record.Indication,
		Contraindication:     record.Contraindication,
		SideEffects:          record.SideEffects,
		Interactions:         record.Interactions,
		Dosage:               record.Dosage,
		Price:                record.Price,
		PrescriptionRequired: record.PrescriptionRequired(),
		EmbeddingText:        embeddingText,
		Embedding:            resp.Values,
		Metadata:             record.Metadata(),
	}, nil
}
