package mockapi

// Well-known identifiers of the sample data
const (
	WorkspaceID  = "_row:0u3UkKFs2Km0mYEbm1Rt2"
	WorkspaceHID = "sandbox"
	DatabaseID   = "_row:J5FiZ1Z202GuiF78dxhMr"
	DatabaseHID  = "db-sample"
	Row1ID       = "_row:W6DjtaCrZ201EGLpmZtGO"
	Row1HID      = "sample-1"
	Row2ID       = "_row:0sJjiHf18ZtdzRyt1uKY5"
	Row2HID      = "sample-2"
	OrderID      = "_row:Zl8k9fwC47gf3q4846CLe"
	OrderHID     = "order-1"

	RawReadsFileID   = "_file:V08GBdErNGqynC3O7bill"
	UnassignedFileID = "_file:2n5jHmnbLC4tJShNrk6Df"
	AssignedFileID   = "_file:Fi7dHZJHgA3nqT1y1Ro5u"

	RowCount = 5
)

var hids = map[string]string{
	WorkspaceID: WorkspaceHID,
	DatabaseID:  DatabaseHID,
	Row1ID:      Row1HID,
	Row2ID:      Row2HID,
	OrderID:     OrderHID,
}

const workspaceRow = `{
  "id": "_row:0u3UkKFs2Km0mYEbm1Rt2",
  "parentId": null,
  "hid": "sandbox",
  "type": "workspace",
  "name": "Demo Sandbox"
}`

const databaseRow = `{
  "id": "_row:J5FiZ1Z202GuiF78dxhMr",
  "parentId": "_row:0u3UkKFs2Km0mYEbm1Rt2",
  "hid": "db-sample",
  "type": "database",
  "name": "Sample"
}`

const dataRows = `[
  {
    "id": "_row:0sJjiHf18ZtdzRyt1uKY5",
    "parentId": "_row:J5FiZ1Z202GuiF78dxhMr",
    "hid": "sample-2",
    "type": "row",
    "name": null
  },
  {
    "id": "_row:W6DjtaCrZ201EGLpmZtGO",
    "parentId": "_row:J5FiZ1Z202GuiF78dxhMr",
    "hid": "sample-1",
    "type": "row",
    "name": null
  }
]`

const databaseDescription = `{
  "id": "_row:J5FiZ1Z202GuiF78dxhMr",
  "parentId": "_row:0u3UkKFs2Km0mYEbm1Rt2",
  "type": "database",
  "name": "Sample",
  "dateCreated": "2024-04-04 17:03:33.033115",
  "dateUpdated": "2024-04-04 17:03:33.033115",
  "createdByUserDrn": "drn:identity::user:auth0|65ca7d6f5a130b87df994e5c",
  "hid": "db-sample",
  "hidPrefix": "sample",
  "cols": [
    {
      "id": "_col:2uMlXWSjvBaeYCiR2znkP",
      "name": "Order ID",
      "parentId": "_row:J5FiZ1Z202GuiF78dxhMr",
      "type": "reference",
      "dateCreated": "2024-04-04T17:03:33.033115",
      "cardinality": "one",
      "referenceDatabaseRowId": "_row:Zl8k9fwC47gf3q4846CLe"
    },
    {
      "id": "_col:rFfMhRDSgiQuaY55roMIy",
      "name": "Status",
      "parentId": "_row:J5FiZ1Z202GuiF78dxhMr",
      "type": "select",
      "dateCreated": "2024-04-04T17:03:33.033115",
      "cardinality": "one",
      "configSelect": {
        "options": [
          "Report sent to client",
          "Clinical interpretation completed",
          "Secondary analysis completed",
          "Primary analysis completed",
          "Sample processed by CRO",
          "Ordered"
        ],
        "canCreate": false
      }
    },
    {
      "id": "_col:MYIsZA1z5K5pD7s2o4ouY",
      "name": "To client tracking",
      "parentId": "_row:J5FiZ1Z202GuiF78dxhMr",
      "type": "text",
      "dateCreated": "2024-04-04T17:03:33.033115",
      "cardinality": "one"
    },
    {
      "id": "_col:qb9qXa5BNEMekKVMMJ0XX",
      "name": "Sent to client",
      "parentId": "_row:J5FiZ1Z202GuiF78dxhMr",
      "type": "date",
      "dateCreated": "2024-04-04T17:03:33.033115",
      "cardinality": "one"
    },
    {
      "id": "_col:yOmqi9mS6GkBQgiQj5Quw",
      "name": "Raw reads",
      "parentId": "_row:J5FiZ1Z202GuiF78dxhMr",
      "type": "file",
      "dateCreated": "2024-04-04T17:03:33.033115",
      "cardinality": "many"
    },
    {
      "id": "_col:Bq2pZ9fJ4kT7mA1cX0vLe",
      "name": "Reads",
      "parentId": "_row:J5FiZ1Z202GuiF78dxhMr",
      "type": "integer",
      "dateCreated": "2024-04-04T17:03:33.033115",
      "cardinality": "one"
    }
  ],
  "parent": {"id": "_row:0u3UkKFs2Km0mYEbm1Rt2"},
  "fields": [],
  "rowJsonSchema": {}
}`

const workspaceDescription = `{
  "id": "_row:0u3UkKFs2Km0mYEbm1Rt2",
  "parentId": null,
  "type": "workspace",
  "name": "Demo Sandbox",
  "dateCreated": "2024-04-04 17:00:00.000000",
  "dateUpdated": "2024-04-04 17:00:00.000000",
  "createdByUserDrn": "drn:identity::user:auth0|65ca7d6f5a130b87df994e5c",
  "hid": "sandbox",
  "rowJsonSchema": {}
}`

const row1Fields = `[
  {
    "columnId": "_col:2uMlXWSjvBaeYCiR2znkP",
    "cellId": "_cell:a1",
    "validationStatus": "valid",
    "type": "reference",
    "value": {"rowIds": ["_row:Zl8k9fwC47gf3q4846CLe"]}
  },
  {
    "columnId": "_col:rFfMhRDSgiQuaY55roMIy",
    "cellId": "_cell:a2",
    "validationStatus": "valid",
    "type": "select",
    "value": {"selectedOptions": ["Ordered"]}
  },
  {
    "columnId": "_col:MYIsZA1z5K5pD7s2o4ouY",
    "cellId": "_cell:a3",
    "validationStatus": "valid",
    "type": "text",
    "value": "1Z999AA10123456784"
  },
  {
    "columnId": "_col:yOmqi9mS6GkBQgiQj5Quw",
    "cellId": "_cell:a4",
    "validationStatus": "valid",
    "type": "file",
    "value": {"fileIds": ["_file:V08GBdErNGqynC3O7bill", "_file:Fi7dHZJHgA3nqT1y1Ro5u"]}
  },
  {
    "columnId": "_col:Bq2pZ9fJ4kT7mA1cX0vLe",
    "cellId": "_cell:a5",
    "validationStatus": "valid",
    "type": "integer",
    "value": 42
  }
]`

const row2Fields = `[
  {
    "columnId": "_col:rFfMhRDSgiQuaY55roMIy",
    "cellId": "_cell:b2",
    "validationStatus": "invalid",
    "type": "select",
    "value": {"selectedOptions": ["Sample processed by CRO"]}
  },
  {
    "columnId": "_col:yOmqi9mS6GkBQgiQj5Quw",
    "cellId": "_cell:b4",
    "validationStatus": "valid",
    "type": "file",
    "value": {"fileIds": ["_file:V08GBdErNGqynC3O7bill"]}
  }
]`

const row1Description = `{
  "id": "_row:W6DjtaCrZ201EGLpmZtGO",
  "parentId": "_row:J5FiZ1Z202GuiF78dxhMr",
  "type": "row",
  "dateCreated": "2024-04-05 19:04:04.094428",
  "dateUpdated": "2024-04-08 14:58:18.376",
  "createdByUserDrn": "drn:identity::user:auth0|65ca7d6f5a130b87df994e5c",
  "editedByUserDrn": "drn:identity::user:auth0|65ca7d6f5a130b87df994e5c",
  "submissionStatus": "draft",
  "hid": "sample-1",
  "hidNum": 1,
  "validationStatus": "valid",
  "cols": [],
  "parent": {"id": "_row:J5FiZ1Z202GuiF78dxhMr"},
  "fields": ` + row1Fields + `,
  "rowJsonSchema": {"type": "object", "required": [], "properties": {}}
}`

const row2Description = `{
  "id": "_row:0sJjiHf18ZtdzRyt1uKY5",
  "parentId": "_row:J5FiZ1Z202GuiF78dxhMr",
  "type": "row",
  "dateCreated": "2024-04-08 15:23:26.530019",
  "dateUpdated": "2024-04-08 15:23:40.748",
  "createdByUserDrn": "drn:identity::user:auth0|65ca7d6f5a130b87df994e5c",
  "editedByUserDrn": "drn:identity::user:auth0|65ca7d6f5a130b87df994e5c",
  "submissionStatus": "draft",
  "hid": "sample-2",
  "hidNum": 2,
  "validationStatus": "invalid",
  "cols": [],
  "parent": {"id": "_row:J5FiZ1Z202GuiF78dxhMr"},
  "fields": ` + row2Fields + `,
  "rowJsonSchema": {"type": "object", "required": [], "properties": {}}
}`

const databaseRows = `[
  {
    "id": "_row:W6DjtaCrZ201EGLpmZtGO",
    "parentId": "_row:J5FiZ1Z202GuiF78dxhMr",
    "type": "row",
    "dateCreated": "2024-04-05 19:04:04.094428",
    "dateUpdated": "2024-04-08 14:58:18.376",
    "createdByUserDrn": "drn:identity::user:auth0|65ca7d6f5a130b87df994e5c",
    "editedByUserDrn": "drn:identity::user:auth0|65ca7d6f5a130b87df994e5c",
    "submissionStatus": "draft",
    "hid": "sample-1",
    "hidNum": 1,
    "validationStatus": "valid",
    "fields": ` + row1Fields + `
  },
  {
    "id": "_row:0sJjiHf18ZtdzRyt1uKY5",
    "parentId": "_row:J5FiZ1Z202GuiF78dxhMr",
    "type": "row",
    "dateCreated": "2024-04-08 15:23:26.530019",
    "dateUpdated": "2024-04-08 15:23:40.748",
    "createdByUserDrn": "drn:identity::user:auth0|65ca7d6f5a130b87df994e5c",
    "editedByUserDrn": "drn:identity::user:auth0|65ca7d6f5a130b87df994e5c",
    "submissionStatus": "draft",
    "hid": "sample-2",
    "hidNum": 2,
    "validationStatus": "invalid",
    "fields": ` + row2Fields + `
  }
]`

var files = map[string]string{
	RawReadsFileID: `{
  "id": "_file:V08GBdErNGqynC3O7bill",
  "uri": "s3://deeporigin-nucleus-local-uploads/files/_file:V08GBdErNGqynC3O7bill",
  "name": "pbr322_egfr (1).gb",
  "status": "ready",
  "contentLength": 9757,
  "contentType": ""
}`,
	UnassignedFileID: `{
  "id": "_file:2n5jHmnbLC4tJShNrk6Df",
  "uri": "s3://deeporigin-nucleus-local-uploads/files/_file:2n5jHmnbLC4tJShNrk6Df",
  "name": "QC report (1).pdf",
  "status": "archived",
  "contentLength": 237478,
  "contentType": "application/pdf"
}`,
	AssignedFileID: `{
  "id": "_file:Fi7dHZJHgA3nqT1y1Ro5u",
  "uri": "s3://deeporigin-nucleus-local-uploads/files/_file:Fi7dHZJHgA3nqT1y1Ro5u",
  "name": "sequence_preprocessing.pdf",
  "status": "ready",
  "contentLength": 698255,
  "contentType": "application/pdf"
}`,
}

var unassignedFiles = `[{"file": ` + files[UnassignedFileID] + `}]`

var assignedFiles = `[
  {
    "file": ` + files[AssignedFileID] + `,
    "assignments": [
      {"rowId": "_row:ZEaEUIgsbHmGLVlgnxfvU"},
      {"rowId": "_row:aCWxUxumDFDnu8ZhmhQ0X"},
      {"rowId": "_row:WZVb1jsebafhfLgrHtz2l"},
      {"rowId": "_row:W6DjtaCrZ201EGLpmZtGO"}
    ]
  }
]`
