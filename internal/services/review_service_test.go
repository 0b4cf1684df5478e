package services

import (
	"context"
	"testing"

	"store-service/internal/domain"
	"store-service/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newReviewServiceUnderTest() (*ReviewService, *mocks.MockReviewRepository, *mocks.MockProductRepository) {
	mockReviews := new(mocks.MockReviewRepository)
	mockProducts := new(mocks.MockProductRepository)
	return NewReviewService(mockReviews, mockProducts), mockReviews, mockProducts
}

func TestReviewService_AddReview(t *testing.T) {
	t.Run("creates a review", func(t *testing.T) {
		service, mockReviews, mockProducts := newReviewServiceUnderTest()
		mockProducts.On("FindByID", mock.Anything, testProductID).Return(testProduct(testProductID, "Keyboard", 10.00, 5), nil)
		mockReviews.On("Create", mock.Anything, mock.AnythingOfType("*domain.Review")).Return(nil)

		review, err := service.AddReview(context.Background(), testUserID, testProductID, 4, "solid")
		assert.NoError(t, err)
		assert.Equal(t, 4, review.Rating)
		assert.Equal(t, testUserID, review.UserID)
	})

	t.Run("rating out of range", func(t *testing.T) {
		service, mockReviews, _ := newReviewServiceUnderTest()

		for _, rating := range []int{0, -1, 6} {
			_, err := service.AddReview(context.Background(), testUserID, testProductID, rating, "")
			assert.ErrorIs(t, err, ErrInvalidRating)
		}
		mockReviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		service, _, mockProducts := newReviewServiceUnderTest()
		mockProducts.On("FindByID", mock.Anything, uint64(999)).Return(nil, nil)

		_, err := service.AddReview(context.Background(), testUserID, 999, 5, "")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestReviewService_ListProductReviews(t *testing.T) {
	service, mockReviews, _ := newReviewServiceUnderTest()
	mockReviews.On("ListByProduct", mock.Anything, testProductID).Return([]domain.Review{
		{ID: 1, ProductID: testProductID, Rating: 5},
		{ID: 2, ProductID: testProductID, Rating: 2},
	}, nil)

	reviews, avg, err := service.ListProductReviews(context.Background(), testProductID)
	assert.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.Equal(t, 3.5, avg)
}
