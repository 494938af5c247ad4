package relay

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/rgdevment/service-report/internal/domain"
	"github.com/rgdevment/service-report/internal/service"
)

// SNSPublisher is the slice of the SNS client we call. Tests mock it.
type SNSPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type snsRelay struct {
	client SNSPublisher
}

// ConnectSNS loads the default AWS credential chain for region.
func ConnectSNS(ctx context.Context, region string) (*sns.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return sns.NewFromConfig(cfg), nil
}

// NewSNSRelay texts the message to every recipient in order.
func NewSNSRelay(client SNSPublisher) service.Sender {
	return &snsRelay{client: client}
}

// Send stops at the first failed recipient; the ones before it have already
// been texted. Nothing is retried.
func (r *snsRelay) Send(ctx context.Context, payload domain.NotificationPayload) error {
	for _, to := range payload.Recipients {
		_, err := r.client.Publish(ctx, &sns.PublishInput{
			PhoneNumber: aws.String(to),
			Message:     aws.String(payload.Message),
		})
		if err != nil {
			return &service.DispatchError{Reason: err.Error(), Err: err}
		}
	}
	return nil
}
