package repository_test

import "toklen/internal/repository"

func repositoryFilter(clientID int64, category string) repository.ServiceFilter {
	return repository.ServiceFilter{ClientID: &clientID, Category: category}
}
