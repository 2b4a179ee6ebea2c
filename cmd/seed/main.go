package main

import (
	"flag"
	"os"

	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	file := flag.String("file", "", "path to a course YAML file")
	flag.Parse()

	utils.InitLogger()
	if *file == "" {
		utils.Log.Fatal("-file is required")
	}

	f, err := os.Open(*file)
	if err != nil {
		utils.Log.Fatalf("🔥 Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	cf, err := database.ParseCourseFile(f)
	if err != nil {
		utils.Log.Fatalf("🔥 Invalid course file: %v", err)
	}

	database.ConnectDB()
	if err := database.Migrate(); err != nil {
		utils.Log.Fatalf("🔥 Database migration failed: %v", err)
	}

	course, err := database.ImportCourse(database.DB, cf)
	if err != nil {
		utils.Log.Fatalf("🔥 Import failed: %v", err)
	}

	utils.Log.WithFields(logrus.Fields{
		"course_id":  course.ID,
		"company_id": course.CompanyID,
		"modules":    len(cf.Modules),
	}).Info("✅ Course imported")
}
