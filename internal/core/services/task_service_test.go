package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	"github.com/reconbooks/recon_backend/internal/core/domain"
	portsrepo "github.com/reconbooks/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/reconbooks/recon_backend/internal/core/ports/services"
	"github.com/reconbooks/recon_backend/internal/core/services"
)

type TaskServiceTestSuite struct {
	suite.Suite
	mockTaskRepo *MockTaskRepository
	service      portssvc.TaskSvcFacade
}

func (suite *TaskServiceTestSuite) SetupTest() {
	suite.mockTaskRepo = new(MockTaskRepository)
	suite.service = services.NewTaskService(suite.mockTaskRepo)
}

func (suite *TaskServiceTestSuite) TestCreateTask_MarshalsPayload() {
	ctx := context.Background()
	stagingEntryID := uuid.NewString()
	payload := domain.ReconTaskPayload{StagingEntryID: stagingEntryID}

	tx := fakeTx{}
	suite.mockTaskRepo.On("SaveTask", mock.Anything, tx, mock.Anything, domain.TaskTypeReconcileStagingEntry,
		mock.MatchedBy(func(raw json.RawMessage) bool {
			var decoded domain.ReconTaskPayload
			return json.Unmarshal(raw, &decoded) == nil && decoded.StagingEntryID == stagingEntryID
		}), mock.Anything).Return(nil).Once()

	task, err := suite.service.CreateTask(ctx, tx, domain.TaskTypeReconcileStagingEntry, payload)

	suite.Require().NoError(err)
	suite.NotEmpty(task.TaskID)
	suite.Equal(domain.TaskPending, task.Status)
	suite.Equal(0, task.Attempts)
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestClaimNextTask_EmptyQueue() {
	ctx := context.Background()

	suite.mockTaskRepo.On("ClaimNextTask", mock.Anything, domain.TaskTypeReconcileStagingEntry, mock.Anything).
		Return(nil, apperrors.ErrNotFound).Once()

	task, err := suite.service.ClaimNextTask(ctx, domain.TaskTypeReconcileStagingEntry)

	suite.Require().Error(err)
	suite.Nil(task)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TaskServiceTestSuite) TestClaimNextTask_ReturnsClaimed() {
	ctx := context.Background()
	claimed := &domain.ProcessTask{
		TaskID:   uuid.NewString(),
		TaskType: domain.TaskTypeReconcileStagingEntry,
		Status:   domain.TaskProcessing,
		Attempts: 1,
	}

	suite.mockTaskRepo.On("ClaimNextTask", mock.Anything, domain.TaskTypeReconcileStagingEntry, mock.Anything).
		Return(claimed, nil).Once()

	task, err := suite.service.ClaimNextTask(ctx, domain.TaskTypeReconcileStagingEntry)

	suite.Require().NoError(err)
	suite.Equal(claimed.TaskID, task.TaskID)
	suite.Equal(domain.TaskProcessing, task.Status)
}

func (suite *TaskServiceTestSuite) TestMarkFailed_RecordsError() {
	ctx := context.Background()
	taskID := uuid.NewString()

	suite.mockTaskRepo.On("UpdateTaskStatus", mock.Anything, taskID, domain.TaskFailed,
		mock.MatchedBy(func(opts portsrepo.UpdateTaskOptions) bool {
			return opts.ErrorMessage != nil && *opts.ErrorMessage == "no match found"
		}), mock.Anything).Return(nil).Once()

	err := suite.service.MarkFailed(ctx, taskID, "no match found")

	suite.Require().NoError(err)
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestMarkCompleted() {
	ctx := context.Background()
	taskID := uuid.NewString()

	suite.mockTaskRepo.On("UpdateTaskStatus", mock.Anything, taskID, domain.TaskCompleted,
		portsrepo.UpdateTaskOptions{}, mock.Anything).Return(nil).Once()

	err := suite.service.MarkCompleted(ctx, taskID)

	suite.Require().NoError(err)
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestRequeueTask_OnlyFailedTasks() {
	ctx := context.Background()
	taskID := uuid.NewString()
	completed := &domain.ProcessTask{TaskID: taskID, Status: domain.TaskCompleted}

	suite.mockTaskRepo.On("FindTaskByID", mock.Anything, taskID).Return(completed, nil).Once()

	err := suite.service.RequeueTask(ctx, taskID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "UpdateTaskStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TaskServiceTestSuite) TestRequeueTask_FailedGoesToRetry() {
	ctx := context.Background()
	taskID := uuid.NewString()
	failed := &domain.ProcessTask{TaskID: taskID, Status: domain.TaskFailed}

	suite.mockTaskRepo.On("FindTaskByID", mock.Anything, taskID).Return(failed, nil).Once()
	suite.mockTaskRepo.On("UpdateTaskStatus", mock.Anything, taskID, domain.TaskRetry,
		portsrepo.UpdateTaskOptions{}, mock.Anything).Return(nil).Once()

	err := suite.service.RequeueTask(ctx, taskID)

	suite.Require().NoError(err)
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func TestTaskService(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
