// Package mocks provides mock implementations for testing the webhook router.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces in internal/core. The mocks are generated using
// go:generate directives and provide a fluent API for setting up test
// expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	publisher := mocks.NewMockQueuePublisher(ctrl)
//	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), "large").Return(nil)
package mocks

// Generate mock for QueuePublisher interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=queue_publisher_mock.go github.com/target/runner-webhook-router/internal/core QueuePublisher

// Generate mock for DeliveryAPI interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=delivery_api_mock.go github.com/target/runner-webhook-router/internal/core DeliveryAPI
