package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"restaurant-pos/models"
	"restaurant-pos/repository"
)

// ITicketService defines the kitchen-display workflow over active orders.
type ITicketService interface {
	ListActiveTickets() ([]models.Order, error)
	StartTicket(orderID string) (*models.Order, error)
	ServeTicket(orderID string) (*models.Order, error)
}

// TicketService implements ITicketService.
type TicketService struct {
	ticketRepo   repository.ITicketRepository
	kafkaService IKafkaService
	kafkaTopic   string
}

// NewTicketService creates a new TicketService instance.
func NewTicketService(repo repository.ITicketRepository, kafkaSvc IKafkaService, topic string) ITicketService {
	return &TicketService{
		ticketRepo:   repo,
		kafkaService: kafkaSvc,
		kafkaTopic:   topic,
	}
}

// ListActiveTickets returns the kitchen queue, earliest opened first.
func (s *TicketService) ListActiveTickets() ([]models.Order, error) {
	return s.ticketRepo.ListActiveTickets()
}

// StartTicket marks a ticket IN_PROGRESS.
func (s *TicketService) StartTicket(orderID string) (*models.Order, error) {
	return s.advance(orderID, models.StatusInProgress, models.EventTicketStarted)
}

// ServeTicket marks a ticket SERVED. No previous-state check: the kitchen may
// serve a ticket it never explicitly started.
func (s *TicketService) ServeTicket(orderID string) (*models.Order, error) {
	return s.advance(orderID, models.StatusServed, models.EventTicketServed)
}

func (s *TicketService) advance(orderID string, to models.OrderStatus, event string) (*models.Order, error) {
	order, err := s.ticketRepo.AdvanceTicket(orderID, to)
	if err != nil {
		return nil, fmt.Errorf("failed to advance ticket: %w", err)
	}

	body, err := json.Marshal(models.OrderEvent{
		Event:     event,
		OrderID:   order.ID,
		BranchID:  order.BranchID,
		TableID:   order.TableID,
		Status:    order.Status,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for order %s: %v", event, order.ID, err)
		return order, nil
	}
	if err := s.kafkaService.PushMessage(s.kafkaTopic, order.ID, body); err != nil {
		log.Printf("Failed to publish %s event for order %s: %v", event, order.ID, err)
	}
	return order, nil
}
