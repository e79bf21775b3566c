package database

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type indexSpec struct {
	table   string
	name    string
	columns []string
}

// taskIndexes are the lookup paths the task list and reminder queries rely on.
var taskIndexes = []indexSpec{
	{"tasks", "idx_tasks_status", []string{"status"}},
	{"tasks", "idx_tasks_priority", []string{"priority"}},
	{"tasks", "idx_tasks_due_date", []string{"due_date"}},
	{"tasks", "idx_tasks_created_at", []string{"created_at"}},
	{"tasks", "idx_tasks_team_creator", []string{"team_id", "creator_id"}},
}

// AddIndexes adds indexes AutoMigrate cannot express through struct tags.
// It goes through the migrator so it works on every supported driver.
func AddIndexes(db *gorm.DB, log *logrus.Logger) error {
	m := db.Migrator()

	for _, idx := range taskIndexes {
		if m.HasIndex(idx.table, idx.name) {
			log.WithField("index", idx.name).Debug("index already exists, skipping")
			continue
		}

		stmt := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.WithFields(logrus.Fields{"index": idx.name, "table": idx.table}).Info("created index")
	}

	return nil
}
