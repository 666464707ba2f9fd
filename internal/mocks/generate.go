package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ProfileDecoder --dir ../usecase --output usecase --outpkg usecasemock --filename profile_decoder_mock.go
