package main

import (
	"os"

	"fichai/config"
	"fichai/services/attendance/repository"
	"fichai/services/attendance/usecase"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, reading configuration from the environment")
	}
	log = config.GetLogrusInstance()

	db, err := config.BootDB()
	if err != nil {
		log.Fatalf("Failed to boot DB: %v", err)
	}

	timeOut := config.GetContextTimeout()
	employeeRepo := repository.NewEmployeeRepository(db)

	cli := commandLine{
		employeeRepo:  employeeRepo,
		employeeUC:    usecase.NewEmployeeUseCase(employeeRepo, timeOut),
		institutionUC: usecase.NewInstitutionUseCase(repository.NewInstitutionRepository(db), config.GetKioskIssuer(), timeOut),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			log.Errorf("error: %s", err)
		}
		os.Exit(1)
	}
}
