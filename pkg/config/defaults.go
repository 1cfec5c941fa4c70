package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roomly"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRequests = 20
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Interactive status views must answer within this budget or fall back.
	DefaultStatusReadBudget = 8 * time.Second

	DefaultRecurringWeeks = 12

	DefaultHomeTimezone = "Asia/Seoul"

	// Compiled-in registries, overridable via ROOMS / TEAMS env specs.
	DefaultRoomSpec = "room_1:Seminar Room:default,room_2:Workshop Room"
	DefaultTeamSpec = "team_strategy:Strategy,team_system:Systems,team_operation:Operations,team_franchise:Franchise,team_management:Management,team_etc:Unassigned"
)
