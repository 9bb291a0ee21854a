package seed

import (
	"time"

	"github.com/Ether-4432/crane-game-log/config"
	"github.com/Ether-4432/crane-game-log/internal/logger"
	. "github.com/Ether-4432/crane-game-log/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	recordCount = 80
	// Fixed seed keeps the development dataset stable across reseeds.
	fakerSeed = 20240501
)

// A 1x1 transparent PNG stands in for prize photos in development data.
const placeholderPhoto = "data:image/png;base64," +
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

var (
	storeNames = []string{
		"タイトーステーション 秋葉原",
		"GiGO 新宿",
		"ラウンドワン 梅田",
		"namco イオンモール幕張新都心",
		"セガワールド 葛西",
	}
	storeLocations = []string{
		"東京都千代田区", "東京都新宿区", "大阪府大阪市", "千葉県千葉市", "東京都江戸川区",
	}
	seriesNames = []string{
		"ちいかわ", "すみっコぐらし", "ポケットモンスター", "サンリオキャラクターズ", "鬼滅の刃",
	}
	settingNames = []string{"橋渡し", "3本爪", "2本爪", "直置き", "ペラ輪"}
	finishNames  = []string{"直取り", "ずらし", "押し込み", "タグ掛け", "回転落とし"}
	prizeNames   = []string{
		"ぬいぐるみ", "フィギュア", "キーホルダー", "クッション", "タオル", "お菓子詰め合わせ",
	}
	memos = []string{
		"初見で取れた", "アシストしてもらった", "設定が渋かった", "店員さんが親切だった", "リベンジ成功",
	}
)

func stringPtr(s string) *string {
	return &s
}

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	faker := gofakeit.New(uint64(fakerSeed))

	if err := seedOptions(db, faker, log); err != nil {
		return err
	}
	if err := seedRecords(db, faker, log); err != nil {
		return err
	}

	log.Info("Development data seeded")
	return nil
}

func seedOptions(db *gorm.DB, faker *gofakeit.Faker, log logger.Logger) error {
	for i, name := range storeNames {
		rating := faker.Number(3, 10)
		store := StoreOption{
			Name:             name,
			Location:         stringPtr(storeLocations[i]),
			BoothCountRating: &rating,
		}
		if faker.Bool() {
			store.Memo = stringPtr(faker.RandomString(memos))
		}
		if err := db.Create(&store).Error; err != nil {
			return log.Err("failed to seed store option", err, "name", name)
		}
	}

	for _, name := range seriesNames {
		if err := db.Create(&SeriesOption{Name: name}).Error; err != nil {
			return log.Err("failed to seed series option", err, "name", name)
		}
	}
	for _, name := range settingNames {
		if err := db.Create(&SettingOption{Name: name}).Error; err != nil {
			return log.Err("failed to seed setting option", err, "name", name)
		}
	}
	for _, name := range finishNames {
		if err := db.Create(&FinishOption{Name: name}).Error; err != nil {
			return log.Err("failed to seed finish option", err, "name", name)
		}
	}

	return nil
}

func seedRecords(db *gorm.DB, faker *gofakeit.Faker, log logger.Logger) error {
	now := time.Now()
	yearAgo := now.AddDate(-1, 0, 0)
	costs := []int{100, 100, 100, 200, 300}

	for i := 0; i < recordCount; i++ {
		costPerPlay := costs[faker.Number(0, len(costs)-1)]
		moves := faker.Number(1, 15)
		// Roughly two wins in five, matching a realistic session log.
		won := faker.Number(1, 100) <= 40

		record := PlayRecord{
			Date:        faker.DateRange(yearAgo, now).Format(PlayDateLayout),
			StoreName:   faker.RandomString(storeNames),
			PrizeName:   faker.RandomString(prizeNames),
			CostPerPlay: costPerPlay,
			Moves:       moves,
			TotalCost:   costPerPlay * moves,
			Result:      ResultLose,
		}

		if faker.Bool() {
			series := faker.RandomString(seriesNames)
			record.SeriesName = &series
		}
		if faker.Bool() {
			setting := faker.RandomString(settingNames)
			record.SettingName = &setting
		}
		if faker.Number(1, 100) <= 25 {
			record.Memo = stringPtr(faker.RandomString(memos))
		}
		if faker.Number(1, 100) <= 30 {
			start := StartTypeInitial
			if faker.Bool() {
				start = StartTypeContinuation
			}
			record.StartType = &start
		}
		if faker.Number(1, 100) <= 20 {
			record.Events = datatypes.JSONSlice[PlayEvent]{
				{Type: EventAssist, Move: faker.Number(1, moves)},
			}
		}

		if won {
			record.Result = ResultWin
			finish := faker.RandomString(finishNames)
			record.FinishType = &finish
			if faker.Number(1, 100) <= 70 {
				record.PhotoURL = stringPtr(placeholderPhoto)
			}
		}

		record.Normalize()

		if err := db.Create(&record).Error; err != nil {
			return log.Err("failed to seed record", err, "index", i)
		}
	}

	log.Info("Seeded play records", "count", recordCount)
	return nil
}
