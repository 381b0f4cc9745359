package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/sirupsen/logrus"
)

// Archiver keeps a copy of every monitoring digest. Digests sent by email or
// webhook are ephemeral; the archive is the retained record.
type Archiver interface {
	StoreDigest(ctx context.Context, digest *models.Digest) error
	ListDigests(ctx context.Context, prefix string) ([]string, error)
}

// AzureArchive stores digest documents as JSON blobs.
type AzureArchive struct {
	client        *azblob.Client
	containerName string
}

var _ Archiver = (*AzureArchive)(nil)

// NewAzureArchive creates an archive backed by the given storage account,
// authenticating with managed identity, and ensures the container exists.
func NewAzureArchive(accountName, containerName string) (*AzureArchive, error) {
	if accountName == "" {
		return nil, fmt.Errorf("storage account name is required")
	}

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)
	client, err := azblob.NewClient(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure blob client: %w", err)
	}

	archive := &AzureArchive{client: client, containerName: containerName}

	if _, err := client.CreateContainer(context.Background(), containerName, nil); err != nil {
		if !strings.Contains(err.Error(), "ContainerAlreadyExists") {
			return nil, fmt.Errorf("failed to ensure container exists: %w", err)
		}
	}

	return archive, nil
}

// StoreDigest writes the digest as a timestamped JSON blob named after the
// owning user.
func (a *AzureArchive) StoreDigest(ctx context.Context, digest *models.Digest) error {
	data, err := json.Marshal(digest)
	if err != nil {
		return fmt.Errorf("failed to marshal digest: %w", err)
	}

	name := fmt.Sprintf("digest-%s-%s.json", digest.UserEmail, digest.GeneratedAt.Format("2006-01-02-15-04-05"))
	if _, err := a.client.UploadBuffer(ctx, a.containerName, name, data, nil); err != nil {
		return fmt.Errorf("failed to upload digest %s: %w", name, err)
	}

	logrus.Infof("Archived digest %s", name)
	return nil
}

// ListDigests returns the archived blob names under a prefix.
func (a *AzureArchive) ListDigests(ctx context.Context, prefix string) ([]string, error) {
	var names []string

	pager := a.client.NewListBlobsFlatPager(a.containerName, &azblob.ListBlobsFlatOptions{Prefix: &prefix})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list digests: %w", err)
		}
		for _, blob := range page.Segment.BlobItems {
			if blob.Name != nil {
				names = append(names, *blob.Name)
			}
		}
	}

	return names, nil
}
