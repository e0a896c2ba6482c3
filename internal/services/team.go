package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InviteSender delivers team invitation emails. Implementations may be
// unconfigured, in which case sending is a no-op.
type InviteSender interface {
	SendTeamInvite(to, teamName, inviterName string) error
}

type TeamService struct {
	teams   TeamStore
	users   UserStore
	actions *ActionService
	notify  Notifier
	email   InviteSender
	logger  *zap.Logger
}

func NewTeamService(teams TeamStore, users UserStore, actions *ActionService, notify Notifier, email InviteSender, logger *zap.Logger) *TeamService {
	return &TeamService{teams: teams, users: users, actions: actions, notify: notify, email: email, logger: logger}
}

func (s *TeamService) loadOwnedTeam(ctx context.Context, userID, teamID uuid.UUID) (*models.Team, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	if team.CreatedBy != userID {
		return nil, ErrNotTeamCreator
	}
	return team, nil
}

func (s *TeamService) Create(ctx context.Context, userID uuid.UUID, name, description string) (*models.Team, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}

	team, err := s.teams.Create(ctx, name, description, userID)
	if err != nil {
		return nil, err
	}

	s.notify.Emit("teamCreated", team)
	s.actions.LogAndEmit(ctx, userID, nil, "team_created", map[string]any{"teamId": team.ID, "name": team.Name})
	return team, nil
}

// InviteMember adds a registered user to the team by email and notifies them.
// The invite email is best effort.
func (s *TeamService) InviteMember(ctx context.Context, userID, teamID uuid.UUID, email string) (*models.User, error) {
	team, err := s.loadOwnedTeam(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}

	invitee, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.teams.AddMember(ctx, teamID, invitee.ID); err != nil {
		return nil, err
	}

	if s.email != nil {
		inviter, ierr := s.users.GetByID(ctx, userID)
		inviterName := "A teammate"
		if ierr == nil {
			inviterName = inviter.FullName
		}
		if serr := s.email.SendTeamInvite(invitee.Email, team.Name, inviterName); serr != nil {
			s.logger.Warn("failed to send invite email",
				zap.String("email", invitee.Email), zap.Error(serr))
		}
	}

	s.notify.Emit("memberInvited", map[string]any{
		"teamId": teamID,
		"userId": invitee.ID,
		"email":  invitee.Email,
	})
	s.actions.LogAndEmit(ctx, userID, nil, "member_invited", map[string]any{
		"teamId": teamID,
		"email":  invitee.Email,
	})
	return invitee, nil
}

func (s *TeamService) RemoveMember(ctx context.Context, userID, teamID, memberID uuid.UUID) error {
	team, err := s.loadOwnedTeam(ctx, userID, teamID)
	if err != nil {
		return err
	}
	if memberID == team.CreatedBy {
		return ErrCannotRemoveCreator
	}

	if err := s.teams.RemoveMember(ctx, teamID, memberID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	s.notify.Emit("memberRemoved", map[string]any{"teamId": teamID, "userId": memberID})
	s.actions.LogAndEmit(ctx, userID, nil, "member_removed", map[string]any{
		"teamId": teamID,
		"userId": memberID,
	})
	return nil
}

func (s *TeamService) Leave(ctx context.Context, userID, teamID uuid.UUID) error {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTeamNotFound
		}
		return err
	}
	if userID == team.CreatedBy {
		return ErrCreatorCannotLeave
	}

	if err := s.teams.RemoveMember(ctx, teamID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	s.notify.Emit("memberLeft", map[string]any{"teamId": teamID, "userId": userID})
	s.actions.LogAndEmit(ctx, userID, nil, "member_left", map[string]any{"teamId": teamID})
	return nil
}

func (s *TeamService) Update(ctx context.Context, userID, teamID uuid.UUID, name, description string) (*models.Team, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if _, err := s.loadOwnedTeam(ctx, userID, teamID); err != nil {
		return nil, err
	}

	team, err := s.teams.Update(ctx, teamID, name, description)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	s.notify.Emit("teamUpdated", team)
	s.actions.LogAndEmit(ctx, userID, nil, "team_updated", map[string]any{"teamId": teamID, "name": name})
	return team, nil
}

func (s *TeamService) Delete(ctx context.Context, userID, teamID uuid.UUID) error {
	if _, err := s.loadOwnedTeam(ctx, userID, teamID); err != nil {
		return err
	}

	if err := s.teams.Delete(ctx, teamID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	s.notify.Emit("teamDeleted", map[string]any{"teamId": teamID})
	s.actions.LogAndEmit(ctx, userID, nil, "team_deleted", map[string]any{"teamId": teamID})
	return nil
}

// GetByID returns a team with its members, member-only.
func (s *TeamService) GetByID(ctx context.Context, userID, teamID uuid.UUID) (*models.Team, []models.TeamMember, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrTeamNotFound
		}
		return nil, nil, err
	}

	isMember, err := s.teams.IsMember(ctx, teamID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !isMember {
		return nil, nil, ErrNotTeamMember
	}

	members, err := s.teams.GetMembers(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	return team, members, nil
}

func (s *TeamService) GetMyTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	return s.teams.GetTeamsForMember(ctx, userID)
}
