package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"fichai/domain"

	"github.com/asaskevich/govalidator"
	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	writeFileFunc    = os.WriteFile      // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	employeeRepo  domain.EmployeeRepo
	employeeUC    domain.EmployeeUseCase
	institutionUC domain.InstitutionUseCase
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  resetpassword -username USERNAME - reset an employee's password")
	fmt.Println("  adduser -username USERNAME -name NAME [-role admin|employee] [-institution ID] - create an employee")
	fmt.Println("  kiosk -institution ID [-out kiosk.png] - rotate the kiosk secret and write its enrolment QR code")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The employee's username. The password will be prompted next.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserUname := addUserCmd.String("username", "", "Login name, alphanumeric.")
	addUserName := addUserCmd.String("name", "", "Full name.")
	addUserRole := addUserCmd.String("role", domain.RoleEmployee, "admin or employee.")
	addUserInstitution := addUserCmd.Int("institution", 1, "Institution id.")

	kioskCmd := flag.NewFlagSet("kiosk", flag.ContinueOnError)
	kioskInstitution := kioskCmd.Int("institution", 1, "Institution id.")
	kioskOut := kioskCmd.String("out", "kiosk.png", "Where to write the enrolment QR code.")

	switch args[1] {
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordUname, pwd)

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserInstitution, *addUserUname, *addUserName, *addUserRole, pwd)

	case "kiosk":
		if err := kioskCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.rotateKiosk(*kioskInstitution, *kioskOut)

	default:
		cli.printUsage()
		return errHelp
	}
}

func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	emp, err := cli.employeeRepo.GetEmployeeByUsername(ctx, strings.ToLower(uname))
	if err != nil {
		return err
	}
	req := &domain.UpdateEmployeeRequest{Password: &pwd}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		return err
	}
	_, err = cli.employeeUC.UpdateEmployee(ctx, emp.InstitutionID, emp.EmployeeID, req)
	return err
}

func (cli *commandLine) addUser(institutionID int, uname, name, role, pwd string) error {
	req := &domain.CreateEmployeeRequest{
		Name:     name,
		Username: uname,
		Password: pwd,
		Role:     role,
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		return err
	}

	emp, err := cli.employeeUC.CreateEmployee(context.Background(), institutionID, req)
	if err != nil {
		return err
	}
	fmt.Printf("created %s %q with id %d\n", emp.Role, emp.Username, emp.EmployeeID)
	return nil
}

func (cli *commandLine) rotateKiosk(institutionID int, out string) error {
	enrollment, err := cli.institutionUC.RotateKioskSecret(context.Background(), institutionID)
	if err != nil {
		return err
	}
	if err := writeFileFunc(out, enrollment.PNG, 0o600); err != nil {
		return err
	}
	fmt.Printf("kiosk secret rotated, scan %s or open %s\n", out, enrollment.URL)
	return nil
}
