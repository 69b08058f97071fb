package migration

import (
	"context"

	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/google/uuid"
)

// The initial achievement catalog of the club.
func seedAchievements(ctx context.Context) error {
	achievements := []entity.Achievement{
		{
			Name:           "Primera Rodada",
			Description:    "Asiste a tu primer evento del club",
			Category:       "events",
			Icon:           "first-ride",
			BonusPoints:    50,
			Condition:      entity.EventsAttendedCondition,
			Operator:       entity.GreaterOrEqualOp,
			ConditionValue: 1,
		},
		{
			Name:           "Rodador Constante",
			Description:    "Asiste a 10 eventos del club",
			Category:       "events",
			Icon:           "steady-rider",
			BonusPoints:    200,
			Condition:      entity.EventsAttendedCondition,
			Operator:       entity.GreaterOrEqualOp,
			ConditionValue: 10,
		},
		{
			Name:           "Veterano",
			Description:    "Cumple un año como miembro activo",
			Category:       "membership",
			Icon:           "veteran",
			BonusPoints:    300,
			Condition:      entity.MonthsActiveCondition,
			Operator:       entity.GreaterOrEqualOp,
			ConditionValue: 12,
		},
		{
			Name:           "Milla de Oro",
			Description:    "Acumula 1000 puntos",
			Category:       "points",
			Icon:           "golden-mile",
			BonusPoints:    100,
			Condition:      entity.PointsAccumulatedCondition,
			Operator:       entity.GreaterOrEqualOp,
			ConditionValue: 1000,
		},
		{
			Name:           "Coleccionista",
			Description:    "Canjea 5 recompensas",
			Category:       "rewards",
			Icon:           "collector",
			BonusPoints:    150,
			Condition:      entity.RewardsRedeemedCondition,
			Operator:       entity.GreaterOrEqualOp,
			ConditionValue: 5,
		},
		{
			Name:           "Top 10",
			Description:    "Entra al top 10 de la clasificación",
			Category:       "ranking",
			Icon:           "top-ten",
			BonusPoints:    250,
			Condition:      entity.RankingPositionCondition,
			Operator:       entity.LessOrEqualOp,
			ConditionValue: 10,
		},
		{
			Name:           "Nivel Rider",
			Description:    "Alcanza el nivel Rider",
			Category:       "levels",
			Icon:           "rider",
			BonusPoints:    100,
			Condition:      entity.LevelReachedCondition,
			Operator:       entity.GreaterOrEqualOp,
			ConditionValue: 5,
		},
		{
			Name:           "Leyenda del Club",
			Description:    "Alcanza el nivel Legend",
			Category:       "levels",
			Icon:           "legend",
			BonusPoints:    500,
			Condition:      entity.LevelReachedCondition,
			Operator:       entity.GreaterOrEqualOp,
			ConditionValue: 7,
		},
	}

	for i := range achievements {
		achievements[i].Base = entity.Base{ID: uuid.NewString()}
		achievements[i].Active = true
		if err := xcontext.DB(ctx).Create(&achievements[i]).Error; err != nil {
			return err
		}
	}

	return nil
}
