// Package demo holds the fixture dataset loaded by the reset endpoint.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/capibaras/clientele/internal/models"
	"github.com/capibaras/clientele/internal/store"
	"github.com/capibaras/clientele/pkg/crypto"
)

type clientFixture struct {
	id     string
	name   string
	prefix string // incidents-mail prefix, domain appended at seed time
	plan   models.Plan
}

type employeeFixture struct {
	id       string
	clientID string // empty means unassigned
	name     string
	email    string
	password string
	role     models.Role
	status   models.InvitationStatus
	invited  time.Time
}

const (
	clientUniverso  = "acfa53b4-58f3-46e8-809b-19ef52b437ed"
	clientGlobalcom = "22128c04-0c2c-4633-8317-0fffd552f7a6"
	clientGigatel   = "9a652818-342e-4771-84cf-39c20a29264d"
)

var clients = []clientFixture{
	{clientUniverso, "Universo Móvel", "universo", models.PlanEmprendedor},
	{clientGlobalcom, "GlobalCom", "globalcom", models.PlanEmpresario},
	{clientGigatel, "GigaTel", "gigatel", models.PlanEmpresarioPlus},
}

func at(day, hour, minute, second int) time.Time {
	return time.Date(2024, 10, day, hour, minute, second, 0, time.UTC)
}

var employees = []employeeFixture{
	{"099416a5-e094-4274-9901-cc07f686e50a", clientUniverso, "Bernardo Lima Abreu",
		"bernardo.abreu@universo.br", "bernardo123", models.RoleAdmin,
		models.InvitationAccepted, at(10, 17, 56, 55)},
	{"906ee75c-2bfd-4478-8f8e-da8b7fede94d", clientUniverso, "Maria Silva Oliveira",
		"maria.silva@universo.br", "maria123", models.RoleAnalyst,
		models.InvitationAccepted, at(12, 14, 26, 22)},
	{"7ecbab00-726e-4c21-b7ea-17fa2ace7b1d", clientUniverso, "João Pedro Santos",
		"joao.santos@universo.br", "joao1234", models.RoleAgent,
		models.InvitationAccepted, at(13, 15, 11, 12)},
	{"ec953b05-f153-4193-b357-9f2327d54281", clientUniverso, "José Augusto Ferreira",
		"jose.ferreira@universo.br", "jose1234", models.RoleAnalyst,
		models.InvitationPending, at(16, 14, 32, 18)},

	{"db9dd866-346f-46a7-b4fe-6d5573597e3d", clientGlobalcom, "Emiliano Giraldo Velasquez",
		"emiliano@globalcom.ec", "emiliano123", models.RoleAdmin,
		models.InvitationAccepted, at(11, 15, 11, 12)},
	{"1dabcf78-e62a-41fd-b69c-fd7c775b04d4", clientGlobalcom, "Mariana Sanchez Torres",
		"mariana@globalcom.ec", "mariana123", models.RoleAnalyst,
		models.InvitationAccepted, at(12, 16, 32, 48)},
	{"b15960ec-e058-4ed7-8721-39925c810583", clientGlobalcom, "Luciana Vargas Arango",
		"luciana@globalcom.ec", "luciana123", models.RoleAgent,
		models.InvitationAccepted, at(12, 11, 45, 37)},

	{"87caee53-ab01-4dea-80bf-5c044364f94b", clientGigatel, "Cielo Guerrero Rivera",
		"cielo.guerrero.rivera@gigatel.co", "cielo123", models.RoleAdmin,
		models.InvitationAccepted, at(15, 11, 45, 15)},
	{"e7ae844f-ae95-4d04-8d45-0a155ce58bcc", clientGigatel, "Miguel Diaz Flores",
		"miguel.diaz.flores@gigatel.co", "miguel123", models.RoleAnalyst,
		models.InvitationAccepted, at(16, 11, 27, 39)},
	{"0abad006-921c-4e09-b2a6-10713b71571f", clientGigatel, "Julian Cordoba Rincón",
		"julian.cordoba.rincon@gigatel.co", "julian123", models.RoleAgent,
		models.InvitationAccepted, at(16, 22, 45, 37)},

	{"48b93bd9-492d-4b05-b38d-6ee4d2d83728", "", "Sofia Martinez Lopez",
		"sofia@gigatel.co", "sofia123", models.RoleAnalyst,
		models.InvitationUninvited, at(9, 8, 25, 51)},
	{"e658bffa-d2a0-4ed4-9863-bbcd8939d978", "", "Lucia Gonzalez Fernandez",
		"lucia@globalcom.ec", "lucia123", models.RoleAgent,
		models.InvitationUninvited, at(10, 5, 47, 23)},
}

// Seed inserts the demo dataset. Incident-mail addresses get the configured
// domain appended so environments never collide.
func Seed(ctx context.Context, clientStore store.ClientStore, employeeStore store.EmployeeStore, domain string) error {
	for _, fixture := range clients {
		plan := fixture.plan
		client := &models.Client{
			Name:           fixture.name,
			EmailIncidents: fixture.prefix + "@" + domain,
			Plan:           &plan,
		}
		client.ID = fixture.id
		if err := clientStore.Create(ctx, client); err != nil {
			return fmt.Errorf("demo: seed client %s: %w", fixture.name, err)
		}
	}

	for _, fixture := range employees {
		hashed, err := crypto.HashPassword(fixture.password)
		if err != nil {
			return fmt.Errorf("demo: hash password for %s: %w", fixture.email, err)
		}

		employee := &models.Employee{
			Name:             fixture.name,
			Email:            fixture.email,
			Password:         hashed,
			Role:             fixture.role,
			InvitationStatus: fixture.status,
			InvitationDate:   fixture.invited,
		}
		employee.ID = fixture.id
		if fixture.clientID != "" {
			clientID := fixture.clientID
			employee.ClientID = &clientID
		}
		if err := employeeStore.Create(ctx, employee); err != nil {
			return fmt.Errorf("demo: seed employee %s: %w", fixture.email, err)
		}
	}

	return nil
}
