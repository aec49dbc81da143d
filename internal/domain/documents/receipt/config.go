package receipt

// DocumentType is the type name used for numbering and the journal.
const DocumentType = "receipt"
