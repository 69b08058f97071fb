package testutil

import (
	"context"
	"time"

	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/internal/repository"
)

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	userStatsRepo := repository.NewUserStatsRepository()

	users := []entity.User{
		{Base: entity.Base{ID: "user1"}, Email: "user1@club.test", Name: "User One", Role: entity.UserRole},
		{Base: entity.Base{ID: "user2"}, Email: "user2@club.test", Name: "User Two", Role: entity.UserRole},
		{Base: entity.Base{ID: "admin"}, Email: "admin@club.test", Name: "Admin", Role: entity.AdminRole},
	}

	for i := range users {
		if err := userRepo.Create(ctx, &users[i]); err != nil {
			panic(err)
		}

		stats := &entity.UserStats{UserID: users[i].ID, Points: 0, Level: "Aspirante"}
		if err := userStatsRepo.Create(ctx, stats); err != nil {
			panic(err)
		}
	}
}

func InsertRewards(ctx context.Context) {
	rewardRepo := repository.NewRewardRepository()
	stock := func(n int64) *int64 { return &n }

	rewards := []entity.Reward{
		{
			Base:   entity.Base{ID: "reward1"},
			Name:   "Club T-Shirt",
			Cost:   100,
			Stock:  stock(5),
			Active: true,
		},
		{
			Base:   entity.Base{ID: "reward2"},
			Name:   "Sticker Pack",
			Cost:   20,
			Stock:  stock(1),
			Active: true,
		},
	}

	for i := range rewards {
		if err := rewardRepo.Create(ctx, &rewards[i]); err != nil {
			panic(err)
		}
	}
}

func InsertEvents(ctx context.Context) {
	eventRepo := repository.NewEventRepository()

	events := []entity.Event{
		{
			Base:             entity.Base{ID: "event1"},
			Name:             "Sunday Ride",
			Location:         "Bogotá",
			StartsAt:         time.Now().Add(24 * time.Hour),
			EndsAt:           time.Now().Add(30 * time.Hour),
			AttendancePoints: 60,
		},
	}

	for i := range events {
		if err := eventRepo.Create(ctx, &events[i]); err != nil {
			panic(err)
		}
	}
}
