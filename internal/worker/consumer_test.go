package worker_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	"github.com/reconbooks/recon_backend/internal/core/domain"
	"github.com/reconbooks/recon_backend/internal/metrics"
	"github.com/reconbooks/recon_backend/internal/worker"
)

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(ctx context.Context, tx pgx.Tx, taskType domain.TaskType, payload any) (*domain.ProcessTask, error) {
	args := m.Called(ctx, tx, taskType, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessTask), args.Error(1)
}

func (m *MockTaskService) ClaimNextTask(ctx context.Context, taskType domain.TaskType) (*domain.ProcessTask, error) {
	args := m.Called(ctx, taskType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessTask), args.Error(1)
}

func (m *MockTaskService) MarkCompleted(ctx context.Context, taskID string) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *MockTaskService) MarkFailed(ctx context.Context, taskID string, errMsg string) error {
	args := m.Called(ctx, taskID, errMsg)
	return args.Error(0)
}

func (m *MockTaskService) RequeueTask(ctx context.Context, taskID string) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *MockTaskService) GetTask(ctx context.Context, taskID string) (*domain.ProcessTask, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessTask), args.Error(1)
}

type MockReconService struct {
	mock.Mock
}

func (m *MockReconService) ProcessStagingEntry(ctx context.Context, stagingEntryID string) (*domain.ReconResult, error) {
	args := m.Called(ctx, stagingEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconResult), args.Error(1)
}

type ConsumerTestSuite struct {
	suite.Suite
	mockTaskSvc  *MockTaskService
	mockReconSvc *MockReconService
	consumer     *worker.Consumer
}

func (suite *ConsumerTestSuite) SetupTest() {
	suite.mockTaskSvc = new(MockTaskService)
	suite.mockReconSvc = new(MockReconService)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())
	suite.consumer = worker.NewConsumer(suite.mockTaskSvc, suite.mockReconSvc, m, logger, time.Second)
}

func reconTask(stagingEntryID string) *domain.ProcessTask {
	payload, _ := json.Marshal(domain.ReconTaskPayload{StagingEntryID: stagingEntryID})
	return &domain.ProcessTask{
		TaskID:   uuid.NewString(),
		TaskType: domain.TaskTypeReconcileStagingEntry,
		Payload:  payload,
		Status:   domain.TaskProcessing,
		Attempts: 1,
	}
}

func (suite *ConsumerTestSuite) TestRunBatch_EmptyQueue() {
	suite.mockTaskSvc.On("ClaimNextTask", mock.Anything, domain.TaskTypeReconcileStagingEntry).
		Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.consumer.RunBatch(context.Background(), time.Second)

	suite.Require().NoError(err)
	suite.Equal(&worker.BatchResult{}, result)
	suite.mockTaskSvc.AssertExpectations(suite.T())
}

func (suite *ConsumerTestSuite) TestRunBatch_ProcessesUntilEmpty() {
	stagingEntryID := uuid.NewString()
	task := reconTask(stagingEntryID)

	suite.mockTaskSvc.On("ClaimNextTask", mock.Anything, domain.TaskTypeReconcileStagingEntry).
		Return(task, nil).Once()
	suite.mockReconSvc.On("ProcessStagingEntry", mock.Anything, stagingEntryID).
		Return(&domain.ReconResult{Outcome: domain.OutcomeCreated, StagingEntryID: stagingEntryID}, nil).Once()
	suite.mockTaskSvc.On("MarkCompleted", mock.Anything, task.TaskID).Return(nil).Once()
	suite.mockTaskSvc.On("ClaimNextTask", mock.Anything, domain.TaskTypeReconcileStagingEntry).
		Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.consumer.RunBatch(context.Background(), time.Second)

	suite.Require().NoError(err)
	suite.Equal(1, result.Processed)
	suite.Equal(1, result.Succeeded)
	suite.Equal(0, result.Failed)
	suite.mockTaskSvc.AssertExpectations(suite.T())
	suite.mockReconSvc.AssertExpectations(suite.T())
}

func (suite *ConsumerTestSuite) TestRunBatch_ReconFailureDoesNotAbortBatch() {
	stagingEntryID := uuid.NewString()
	task := reconTask(stagingEntryID)

	suite.mockTaskSvc.On("ClaimNextTask", mock.Anything, domain.TaskTypeReconcileStagingEntry).
		Return(task, nil).Once()
	suite.mockReconSvc.On("ProcessStagingEntry", mock.Anything, stagingEntryID).
		Return(&domain.ReconResult{Outcome: domain.OutcomeNoMatch, StagingEntryID: stagingEntryID}, assert.AnError).Once()
	suite.mockTaskSvc.On("MarkFailed", mock.Anything, task.TaskID, mock.MatchedBy(func(msg string) bool {
		return msg != ""
	})).Return(nil).Once()
	suite.mockTaskSvc.On("ClaimNextTask", mock.Anything, domain.TaskTypeReconcileStagingEntry).
		Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.consumer.RunBatch(context.Background(), time.Second)

	suite.Require().NoError(err)
	suite.Equal(1, result.Processed)
	suite.Equal(0, result.Succeeded)
	suite.Equal(1, result.Failed)
	suite.mockTaskSvc.AssertExpectations(suite.T())
}

func (suite *ConsumerTestSuite) TestRunBatch_MalformedPayloadFailsTask() {
	task := reconTask(uuid.NewString())
	task.Payload = json.RawMessage(`{not json`)

	suite.mockTaskSvc.On("ClaimNextTask", mock.Anything, domain.TaskTypeReconcileStagingEntry).
		Return(task, nil).Once()
	suite.mockTaskSvc.On("MarkFailed", mock.Anything, task.TaskID, mock.Anything).Return(nil).Once()
	suite.mockTaskSvc.On("ClaimNextTask", mock.Anything, domain.TaskTypeReconcileStagingEntry).
		Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.consumer.RunBatch(context.Background(), time.Second)

	suite.Require().NoError(err)
	suite.Equal(1, result.Failed)
	suite.mockReconSvc.AssertNotCalled(suite.T(), "ProcessStagingEntry", mock.Anything, mock.Anything)
	suite.mockTaskSvc.AssertExpectations(suite.T())
}

func (suite *ConsumerTestSuite) TestRunBatch_SingleFlight() {
	release := make(chan struct{})
	entered := make(chan struct{})

	suite.mockTaskSvc.On("ClaimNextTask", mock.Anything, domain.TaskTypeReconcileStagingEntry).
		Run(func(args mock.Arguments) {
			close(entered)
			<-release
		}).Return(nil, apperrors.ErrNotFound).Once()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := suite.consumer.RunBatch(context.Background(), time.Second)
		suite.NoError(err)
	}()

	<-entered
	suite.True(suite.consumer.IsRunning())
	_, err := suite.consumer.RunBatch(context.Background(), time.Second)
	suite.ErrorIs(err, apperrors.ErrConflict)

	close(release)
	<-done
	suite.False(suite.consumer.IsRunning())
}

func TestConsumer(t *testing.T) {
	suite.Run(t, new(ConsumerTestSuite))
}
