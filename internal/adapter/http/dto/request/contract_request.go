package request

// ContractUploadRequest records the externally stored signed-document
// reference; blob storage itself is out of scope.
type ContractUploadRequest struct {
	DocumentRef string `json:"document_ref" binding:"required"`
}
