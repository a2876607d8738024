package control

import (
	"context"
	"errors"
	"log"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gnn-sim/backend/internal/game"
)

// ServiceName полное имя сервиса управления
const ServiceName = "gnn.Control"

const (
	methodGetStats  = "/" + ServiceName + "/GetStats"
	methodSetPaused = "/" + ServiceName + "/SetPaused"
	methodSpawnFood = "/" + ServiceName + "/SpawnFood"
)

// Controller то, чем управляет сервис; реализуется game.GameTicker
type Controller interface {
	GetStats() game.TickerStats
	GetSystemsStats() map[string]game.SystemStats
	SetPaused(paused bool)
	SpawnFood(x, y float32) error
}

var _ Controller = (*game.GameTicker)(nil)

type GetStatsRequest struct{}

type GetStatsResponse struct {
	Ticker  game.TickerStats            `json:"ticker"`
	Systems map[string]game.SystemStats `json:"systems"`
}

type SetPausedRequest struct {
	Paused bool `json:"paused"`
}

type SetPausedResponse struct {
	Paused bool `json:"paused"`
}

type SpawnFoodRequest struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type SpawnFoodResponse struct {
	Queued bool `json:"queued"`
}

// ControlServer серверная сторона gnn.Control
type ControlServer interface {
	GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error)
	SetPaused(ctx context.Context, req *SetPausedRequest) (*SetPausedResponse, error)
	SpawnFood(ctx context.Context, req *SpawnFoodRequest) (*SpawnFoodResponse, error)
}

// Server реализует ControlServer поверх Controller
type Server struct {
	ctrl   Controller
	logger *log.Logger
}

// NewServer создает сервер управления
func NewServer(ctrl Controller, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{ctrl: ctrl, logger: logger}
}

// Register регистрирует сервис на gRPC сервере
func (s *Server) Register(gs *grpc.Server) {
	gs.RegisterService(&serviceDesc, s)
}

func (s *Server) GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error) {
	return &GetStatsResponse{
		Ticker:  s.ctrl.GetStats(),
		Systems: s.ctrl.GetSystemsStats(),
	}, nil
}

func (s *Server) SetPaused(ctx context.Context, req *SetPausedRequest) (*SetPausedResponse, error) {
	s.ctrl.SetPaused(req.Paused)
	s.logger.Printf("[Control] Пауза: %v", req.Paused)
	return &SetPausedResponse{Paused: req.Paused}, nil
}

func (s *Server) SpawnFood(ctx context.Context, req *SpawnFoodRequest) (*SpawnFoodResponse, error) {
	if err := s.ctrl.SpawnFood(req.X, req.Y); err != nil {
		if errors.Is(err, game.ErrCommandQueueFull) {
			return nil, status.Error(codes.ResourceExhausted, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	s.logger.Printf("[Control] Еда поставлена в очередь: (%.1f, %.1f)", req.X, req.Y)
	return &SpawnFoodResponse{Queued: true}, nil
}

func getStatsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetStatsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServer).GetStats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetStats}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ControlServer).GetStats(ctx, req.(*GetStatsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func setPausedHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SetPausedRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServer).SetPaused(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodSetPaused}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ControlServer).SetPaused(ctx, req.(*SetPausedRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func spawnFoodHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SpawnFoodRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServer).SpawnFood(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodSpawnFood}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ControlServer).SpawnFood(ctx, req.(*SpawnFoodRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStats", Handler: getStatsHandler},
		{MethodName: "SetPaused", Handler: setPausedHandler},
		{MethodName: "SpawnFood", Handler: spawnFoodHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gnn/control",
}
