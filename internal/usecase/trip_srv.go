package usecase

import (
	"context"
	"fmt"
	"time"

	"matatubook/internal/data/entity"
	"matatubook/internal/data/repository"
	"matatubook/internal/dto/request"
	"matatubook/internal/dto/response"
	"matatubook/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TripService interface {
	SearchTrips(ctx context.Context, req *request.SearchTripsRequest) ([]response.TripResponse, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (*response.TripDetailResponse, error)
	CheckSeatAvailability(ctx context.Context, tripID uuid.UUID) (*response.SeatAvailabilityResponse, error)
	ListRoutes(ctx context.Context) ([]response.RouteResponse, error)
	CompletePastTrips(ctx context.Context) (int64, error)
}

type tripService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTripService(repo *repository.Repository, log *zap.Logger) TripService {
	return &tripService{
		repo: repo,
		log:  log,
	}
}

func (s *tripService) SearchTrips(ctx context.Context, req *request.SearchTripsRequest) ([]response.TripResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Trip search validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Resolve the route
	route, err := s.repo.Route.FindByEndpoints(ctx, req.Origin, req.Destination)
	if err != nil {
		s.log.Error("Failed to find route",
			zap.Error(err),
			zap.String("origin", req.Origin),
			zap.String("destination", req.Destination),
		)
		return nil, fmt.Errorf("failed to search trips")
	}
	if route == nil {
		// No route between the endpoints means no trips, not an error
		return []response.TripResponse{}, nil
	}

	// 3. Parse travel date, default today
	date := time.Now()
	if req.Date != "" {
		date, err = time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid date format, expected YYYY-MM-DD")
		}
	}

	minSeats := req.Seats
	if minSeats < 1 {
		minSeats = 1
	}

	// 4. Find matching trips
	trips, err := s.repo.Trip.Search(ctx, route.ID, date, minSeats)
	if err != nil {
		s.log.Error("Failed to search trips", zap.Error(err), zap.String("route_id", route.ID.String()))
		return nil, fmt.Errorf("failed to search trips")
	}

	// 5. Build responses; saccos and vehicles repeat across trips so cache them
	now := time.Now()
	saccos := make(map[uuid.UUID]*entity.Sacco)
	vehicles := make(map[uuid.UUID]*entity.Vehicle)

	results := make([]response.TripResponse, 0, len(trips))
	for _, trip := range trips {
		sacco, err := s.saccoFor(ctx, trip.SaccoID, saccos)
		if err != nil {
			return nil, err
		}
		vehicle, err := s.vehicleFor(ctx, trip.VehicleID, vehicles)
		if err != nil {
			return nil, err
		}

		results = append(results, response.TripToResponse(trip, route, sacco, vehicle, now))
	}

	return results, nil
}

func (s *tripService) GetTrip(ctx context.Context, tripID uuid.UUID) (*response.TripDetailResponse, error) {
	// 1. Load the trip with its associations
	trip, route, sacco, vehicle, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	// 2. Load the seat map
	seats, err := s.repo.Seat.FindByVehicleID(ctx, vehicle.ID)
	if err != nil {
		s.log.Error("Failed to load seats", zap.Error(err), zap.String("vehicle_id", vehicle.ID.String()))
		return nil, fmt.Errorf("failed to load seat map")
	}

	// 3. Mark occupied seats
	occupiedIDs, err := s.repo.SeatBooking.FindOccupiedSeatIDs(ctx, tripID)
	if err != nil {
		s.log.Error("Failed to load occupied seats", zap.Error(err), zap.String("trip_id", tripID.String()))
		return nil, fmt.Errorf("failed to load seat map")
	}

	occupied := make(map[uuid.UUID]bool, len(occupiedIDs))
	for _, id := range occupiedIDs {
		occupied[id] = true
	}

	seatResponses := make([]response.SeatResponse, 0, len(seats))
	for _, seat := range seats {
		seatResponses = append(seatResponses, response.SeatToResponse(seat, occupied[seat.ID]))
	}

	return &response.TripDetailResponse{
		TripResponse: response.TripToResponse(trip, route, sacco, vehicle, time.Now()),
		Seats:        seatResponses,
	}, nil
}

func (s *tripService) CheckSeatAvailability(ctx context.Context, tripID uuid.UUID) (*response.SeatAvailabilityResponse, error) {
	trip, err := s.repo.Trip.FindByID(ctx, tripID)
	if err != nil {
		s.log.Error("Failed to find trip", zap.Error(err), zap.String("trip_id", tripID.String()))
		return nil, fmt.Errorf("failed to check seats")
	}
	if trip == nil {
		return nil, fmt.Errorf("trip not found")
	}

	occupiedNumbers, err := s.repo.SeatBooking.FindOccupiedSeatNumbers(ctx, tripID)
	if err != nil {
		s.log.Error("Failed to load occupied seat numbers", zap.Error(err), zap.String("trip_id", tripID.String()))
		return nil, fmt.Errorf("failed to check seats")
	}
	if occupiedNumbers == nil {
		occupiedNumbers = []string{}
	}

	return &response.SeatAvailabilityResponse{
		TripID:         trip.ID.String(),
		AvailableSeats: trip.AvailableSeats,
		OccupiedSeats:  occupiedNumbers,
		Bookable:       trip.Bookable(time.Now()),
	}, nil
}

func (s *tripService) ListRoutes(ctx context.Context) ([]response.RouteResponse, error) {
	routes, err := s.repo.Route.FindActive(ctx, 100)
	if err != nil {
		s.log.Error("Failed to list routes", zap.Error(err))
		return nil, fmt.Errorf("failed to list routes")
	}

	results := make([]response.RouteResponse, 0, len(routes))
	for _, route := range routes {
		results = append(results, response.RouteToResponse(route))
	}
	return results, nil
}

// CompletePastTrips closes out in-transit trips whose departure date has
// passed. Called from the background worker.
func (s *tripService) CompletePastTrips(ctx context.Context) (int64, error) {
	return s.repo.Trip.CompletePastTrips(ctx, time.Now())
}

func (s *tripService) loadTrip(ctx context.Context, tripID uuid.UUID) (*entity.Trip, *entity.Route, *entity.Sacco, *entity.Vehicle, error) {
	trip, err := s.repo.Trip.FindByID(ctx, tripID)
	if err != nil {
		s.log.Error("Failed to find trip", zap.Error(err), zap.String("trip_id", tripID.String()))
		return nil, nil, nil, nil, fmt.Errorf("failed to load trip")
	}
	if trip == nil {
		return nil, nil, nil, nil, fmt.Errorf("trip not found")
	}

	route, err := s.repo.Route.FindByID(ctx, trip.RouteID)
	if err != nil || route == nil {
		s.log.Error("Failed to load trip route", zap.Error(err), zap.String("trip_id", tripID.String()))
		return nil, nil, nil, nil, fmt.Errorf("failed to load trip")
	}

	sacco, err := s.repo.Sacco.FindByID(ctx, trip.SaccoID)
	if err != nil || sacco == nil {
		s.log.Error("Failed to load trip sacco", zap.Error(err), zap.String("trip_id", tripID.String()))
		return nil, nil, nil, nil, fmt.Errorf("failed to load trip")
	}

	vehicle, err := s.repo.Vehicle.FindByID(ctx, trip.VehicleID)
	if err != nil || vehicle == nil {
		s.log.Error("Failed to load trip vehicle", zap.Error(err), zap.String("trip_id", tripID.String()))
		return nil, nil, nil, nil, fmt.Errorf("failed to load trip")
	}

	return trip, route, sacco, vehicle, nil
}

func (s *tripService) saccoFor(ctx context.Context, id uuid.UUID, cache map[uuid.UUID]*entity.Sacco) (*entity.Sacco, error) {
	if sacco, ok := cache[id]; ok {
		return sacco, nil
	}

	sacco, err := s.repo.Sacco.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load sacco", zap.Error(err), zap.String("sacco_id", id.String()))
		return nil, fmt.Errorf("failed to search trips")
	}
	if sacco == nil {
		return nil, fmt.Errorf("failed to search trips")
	}

	cache[id] = sacco
	return sacco, nil
}

func (s *tripService) vehicleFor(ctx context.Context, id uuid.UUID, cache map[uuid.UUID]*entity.Vehicle) (*entity.Vehicle, error) {
	if vehicle, ok := cache[id]; ok {
		return vehicle, nil
	}

	vehicle, err := s.repo.Vehicle.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load vehicle", zap.Error(err), zap.String("vehicle_id", id.String()))
		return nil, fmt.Errorf("failed to search trips")
	}
	if vehicle == nil {
		return nil, fmt.Errorf("failed to search trips")
	}

	cache[id] = vehicle
	return vehicle, nil
}
