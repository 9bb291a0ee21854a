package repositories

import (
	"github.com/Ether-4432/crane-game-log/internal/models"
)

type Repository struct {
	Record   RecordRepository
	Stores   OptionRepository[models.StoreOption]
	Series   OptionRepository[models.SeriesOption]
	Settings OptionRepository[models.SettingOption]
	Finishes OptionRepository[models.FinishOption]
}

func New() Repository {
	return Repository{
		Record:   NewRecordRepository(),
		Stores:   NewOptionRepository[models.StoreOption]("storeOptionRepository"),
		Series:   NewOptionRepository[models.SeriesOption]("seriesOptionRepository"),
		Settings: NewOptionRepository[models.SettingOption]("settingOptionRepository"),
		Finishes: NewOptionRepository[models.FinishOption]("finishOptionRepository"),
	}
}
